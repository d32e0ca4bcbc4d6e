package core

// Resolver (§4.4): the orchestration core. Each entity kind gets fresh-
// first cache lookup, single-flight-deduplicated upstream fallback,
// negative caching, and stale-on-failure degradation. Batch UUID
// resolution additionally dedups by normalized name and folds upstream
// calls into groups of at most 10 (§4.1, §4.4).

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ResolverContext bundles every shared, process-wide collaborator the
// Resolver needs: caches, Admission, the Mojang client, metrics and a
// logger. It is constructed explicitly by the caller (cmd/xenosd) and
// passed into the facades — never a package-level global (§9).
type ResolverContext struct {
	log             *logrus.Logger
	metrics         *Metrics
	admission       *Admission
	mojang          *MojangClient
	health          *HealthMonitor
	requestDeadline time.Duration

	uuidCache            *Cache[UuidPayload]
	profileSignedCache   *Cache[ProfilePayload]
	profileUnsignedCache *Cache[ProfilePayload]
	skinCache            *Cache[[]byte]
	capeCache            *Cache[[]byte]
	headCache            *Cache[[]byte]

	uuidSF     *SingleFlightGroup[Envelope[UuidPayload]]
	profileSF  *SingleFlightGroup[Envelope[ProfilePayload]]
	skinSF     *SingleFlightGroup[Envelope[[]byte]]
	capeSF     *SingleFlightGroup[Envelope[[]byte]]
	headSF     *SingleFlightGroup[Envelope[[]byte]]
	uuidBatchSF *SingleFlightGroup[map[string]Envelope[UuidPayload]]
}

// profileCache returns the signed or unsigned namespace for signed (§4.4:
// "Signed-vs-unsigned profiles are two distinct cache namespaces").
func (rc *ResolverContext) profileCache(signed bool) *Cache[ProfilePayload] {
	if signed {
		return rc.profileSignedCache
	}
	return rc.profileUnsignedCache
}

// withOuterDeadline bounds ctx by the resolver's configured outer deadline
// (§5), covering cache lookups, single-flight wait and the upstream call
// together rather than leaving each upstream attempt as the only timeout in
// play.
func (rc *ResolverContext) withOuterDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if rc.requestDeadline <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, rc.requestDeadline)
}

func classifyOutcome(err error) string {
	if err == nil {
		return "success"
	}
	if e, ok := AsError(err); ok {
		return e.Kind.String()
	}
	return "error"
}

// resolveOne implements the single-entity shape of §4.4 steps 1-5, generic
// over the payload type T. cacheKeyspace is used to namespace the
// single-flight key so, e.g., a signed and unsigned profile fetch for the
// same UUID never collide.
func resolveOne[T any](
	ctx context.Context,
	rc *ResolverContext,
	cache *Cache[T],
	sf *SingleFlightGroup[Envelope[T]],
	cacheKeyspace, key, endpoint, metricKind string,
	fetch func(context.Context) (T, bool, error),
) (T, error) {
	var zero T

	ctx, cancel := rc.withOuterDeadline(ctx)
	defer cancel()

	res := cache.Get(ctx, key)
	if res.Hit && res.Freshness == Fresh {
		if res.Envelope.Negative {
			return zero, NewError(KindNotFound, metricKind+" cached negative", nil)
		}
		return res.Envelope.Data, nil
	}

	sfKey := cacheKeyspace + ":" + key
	env, upErr, _ := sf.Do(ctx, sfKey, func(sctx context.Context) (Envelope[T], error) {
		release, aerr := rc.admission.Enter(sctx, endpoint)
		if aerr != nil {
			return Envelope[T]{}, aerr
		}
		defer release()

		data, found, ferr := fetch(sctx)
		if ferr != nil {
			rc.metrics.UpstreamRequests.WithLabelValues(endpoint, classifyOutcome(ferr)).Inc()
			return Envelope[T]{}, ferr
		}
		if !found {
			rc.metrics.UpstreamRequests.WithLabelValues(endpoint, "not_found").Inc()
			e := NegativeEnvelope[T]()
			cache.Put(context.Background(), key, e)
			return e, nil
		}
		rc.metrics.UpstreamRequests.WithLabelValues(endpoint, "success").Inc()
		e := Positive(data)
		cache.Put(context.Background(), key, e)
		return e, nil
	})

	if upErr != nil {
		if isDegradable(upErr) && res.Hit && res.Freshness == Stale {
			rc.metrics.ServedStale.WithLabelValues(metricKind).Inc()
			if res.Envelope.Negative {
				return zero, NewError(KindNotFound, metricKind+" stale negative", nil)
			}
			return res.Envelope.Data, nil
		}
		return zero, classifyUpstreamErr(upErr)
	}
	if env.Negative {
		return zero, NewError(KindNotFound, metricKind+" not found upstream", nil)
	}
	return env.Data, nil
}

// ResolveUUID implements resolve_uuid(name) (§4.4).
func (rc *ResolverContext) ResolveUUID(ctx context.Context, name string) (UuidPayload, error) {
	key := NormalizeName(name)
	return resolveOne(ctx, rc, rc.uuidCache, rc.uuidSF, "uuid", key, EndpointUUID, KindUUID,
		func(sctx context.Context) (UuidPayload, bool, error) {
			return rc.mojang.GetUUID(sctx, key)
		})
}

// ResolveProfile implements resolve_profile(uuid, signed) (§4.4). Accepts a
// UUID already normalized by ParseUUID; facades are responsible for
// parsing dashed/undashed input (§4.6, §8 property 7).
func (rc *ResolverContext) ResolveProfile(ctx context.Context, id UUID, signed bool) (ProfilePayload, error) {
	key := strings.ReplaceAll(id.String(), "-", "")
	kind := KindProfileUnsigned
	if signed {
		kind = KindProfileSigned
	}
	return resolveOne(ctx, rc, rc.profileCache(signed), rc.profileSF, kind, key, EndpointProfile, kind,
		func(sctx context.Context) (ProfilePayload, bool, error) {
			return rc.mojang.GetProfile(sctx, id, signed)
		})
}

// resolveTextureURL obtains the skin or cape URL for id via the (unsigned)
// profile — textures never need the signature, only the embedded URL
// (§4.2, §4.4 "Resolver.profile to obtain the texture URL").
func (rc *ResolverContext) resolveTextureURL(ctx context.Context, id UUID, cape bool) (string, bool, error) {
	profile, err := rc.ResolveProfile(ctx, id, false)
	if err != nil {
		return "", false, err
	}
	tp, found, err := FindTexturesProperty(profile.Properties)
	if err != nil {
		return "", false, err
	}
	if !found {
		return "", false, nil
	}
	if cape {
		if tp.Textures.Cape == nil {
			return "", false, nil
		}
		return tp.Textures.Cape.URL, true, nil
	}
	if tp.Textures.Skin == nil {
		return "", false, nil
	}
	return tp.Textures.Skin.URL, true, nil
}

// resolveTexture implements the shared skin/cape fetch shape: resolve the
// URL via the profile, then single-flight+admission the raw PNG bytes, with
// the same fresh/stale/negative handling as any other entity. hasURL=false
// (no texture referenced) serves the embedded default instead of touching
// upstream at all (§4.2: "a profile without a texture URL serves the
// default skin"); decode/shape errors downstream of a profile that DID
// reference a texture are KindInternal per §7, never silently defaulted.
func (rc *ResolverContext) resolveTexture(ctx context.Context, id UUID, cache *Cache[[]byte], sf *SingleFlightGroup[Envelope[[]byte]], kind, endpoint string, cape bool, fallback []byte) ([]byte, error) {
	url, hasURL, err := rc.resolveTextureURL(ctx, id, cape)
	if err != nil {
		return nil, err
	}
	key := strings.ReplaceAll(id.String(), "-", "")
	if !hasURL {
		env := Positive(fallback)
		cache.Put(ctx, key, env)
		return fallback, nil
	}
	return resolveOne(ctx, rc, cache, sf, kind, key, endpoint, kind,
		func(sctx context.Context) ([]byte, bool, error) {
			b, found, ferr := rc.mojang.GetTextureBytes(sctx, url)
			if ferr != nil || !found {
				return nil, found, ferr
			}
			if err := ValidateSkinPNG(b); err != nil {
				return nil, false, err
			}
			return b, true, nil
		})
}

// ResolveSkin implements the Skin-derived facade path chained through
// Resolver.profile (§4.2, §4.4).
func (rc *ResolverContext) ResolveSkin(ctx context.Context, id UUID) ([]byte, error) {
	return rc.resolveTexture(ctx, id, rc.skinCache, rc.skinSF, KindSkin, EndpointTextures, false, DefaultSkinPNG("classic"))
}

// ResolveCape implements the Cape-derived facade path. Capes are returned
// unmodified (no decode step); a capeless profile serves a transparent
// placeholder rather than 404ing the whole request, matching the skin
// fallback policy for symmetry at the facade layer.
func (rc *ResolverContext) ResolveCape(ctx context.Context, id UUID) ([]byte, error) {
	return rc.resolveTexture(ctx, id, rc.capeCache, rc.capeSF, KindCape, EndpointTextures, true, DefaultCapePNG())
}

// ResolveHead implements the Head-derived facade path: resolve (or reuse)
// the skin, then crop (§4.2, §4.4, §8 property 8). HeadEntry's key is
// (UUID, overlay); decoding happens fresh on every cache miss for the head
// kind specifically, but the underlying skin fetch/cache is shared between
// overlay=true and overlay=false requests.
func (rc *ResolverContext) ResolveHead(ctx context.Context, id UUID, overlay bool) ([]byte, error) {
	ctx, cancel := rc.withOuterDeadline(ctx)
	defer cancel()

	key := strings.ReplaceAll(id.String(), "-", "") + boolSuffix(overlay)
	res := rc.headCache.Get(ctx, key)
	if res.Hit && res.Freshness == Fresh {
		if res.Envelope.Negative {
			return nil, NewError(KindNotFound, "head cached negative", nil)
		}
		return res.Envelope.Data, nil
	}

	skin, err := rc.ResolveSkin(ctx, id)
	if err != nil {
		if isDegradable(err) && res.Hit && res.Freshness == Stale {
			rc.metrics.ServedStale.WithLabelValues(KindHead).Inc()
			return res.Envelope.Data, nil
		}
		return nil, classifyUpstreamErr(err)
	}
	head, err := ExtractHead(skin, overlay)
	if err != nil {
		return nil, err
	}
	rc.headCache.Put(ctx, key, Positive(head))
	return head, nil
}

func boolSuffix(b bool) string {
	if b {
		return ":overlay"
	}
	return ":base"
}

// UuidBatchItem is one element of ResolveUUIDs' result, in request order.
type UuidBatchItem struct {
	Requested string // the caller's original casing
	Payload   *UuidPayload
	Err       error // non-nil only when neither a payload nor a confirmed-absent outcome is available
}

// uuidDistinctEntry tracks one distinct normalized name across the three
// phases of ResolveUUIDs: cache lookup, upstream batching, result assembly.
type uuidDistinctEntry struct {
	normalized string
	staleHit   bool
	staleEnv   Envelope[UuidPayload]
	item       UuidBatchItem
}

// ResolveUUIDs implements resolve_uuids(names) (§4.4, §8 property 5):
// dedup by normalized name, fresh-first per name, fold remaining names into
// upstream batches of at most 10, and fall back to a stale entry (if any)
// when a batch's upstream call fails outright.
func (rc *ResolverContext) ResolveUUIDs(ctx context.Context, requested []string) ([]UuidBatchItem, error) {
	ctx, cancel := rc.withOuterDeadline(ctx)
	defer cancel()

	distinctIdx := make(map[string]int)
	var distinct []*uuidDistinctEntry

	for _, n := range requested {
		norm := NormalizeName(n)
		if _, ok := distinctIdx[norm]; ok {
			continue
		}
		distinctIdx[norm] = len(distinct)
		distinct = append(distinct, &uuidDistinctEntry{normalized: norm})
	}

	var missing []*uuidDistinctEntry
	for _, d := range distinct {
		res := rc.uuidCache.Get(ctx, d.normalized)
		if res.Hit && res.Freshness == Fresh {
			d.item = uuidBatchItemFromEnvelope(d.normalized, res.Envelope)
			continue
		}
		if res.Hit && res.Freshness == Stale {
			d.staleHit = true
			d.staleEnv = res.Envelope
		}
		missing = append(missing, d)
	}

	// Each group of up to 10 names becomes its own upstream batch call;
	// groups touch disjoint entries so they run concurrently rather than
	// paying their upstream latency one after another.
	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < len(missing); start += 10 {
		end := start + 10
		if end > len(missing) {
			end = len(missing)
		}
		group := missing[start:end]
		g.Go(func() error {
			rc.resolveUUIDBatchGroup(gctx, group)
			return nil
		})
	}
	_ = g.Wait()

	items := make([]UuidBatchItem, len(requested))
	for i, n := range requested {
		norm := NormalizeName(n)
		d := distinct[distinctIdx[norm]]
		it := d.item
		it.Requested = n
		items[i] = it
	}
	return items, nil
}

func uuidBatchItemFromEnvelope(normalized string, env Envelope[UuidPayload]) UuidBatchItem {
	if env.Negative {
		return UuidBatchItem{Requested: normalized, Err: NewError(KindNotFound, "uuid cached negative", nil)}
	}
	p := env.Data
	return UuidBatchItem{Requested: normalized, Payload: &p}
}

// resolveUUIDBatchGroup dispatches one upstream batch (≤10 names) through a
// single-flight group keyed by the sorted, joined name list — two callers
// racing to resolve the exact same set of names share one upstream POST.
// On success every name in group gets a fresh positive or negative entry;
// on failure each name falls back to its own stale entry if it has one,
// otherwise carries the upstream error.
func (rc *ResolverContext) resolveUUIDBatchGroup(ctx context.Context, group []*uuidDistinctEntry) {
	names := make([]string, len(group))
	for i, d := range group {
		names[i] = d.normalized
	}
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	sfKey := strings.Join(sorted, ",")

	result, upErr, _ := rc.uuidBatchSF.Do(ctx, sfKey, func(sctx context.Context) (map[string]Envelope[UuidPayload], error) {
		release, aerr := rc.admission.Enter(sctx, EndpointUUIDs)
		if aerr != nil {
			return nil, aerr
		}
		defer release()

		found, ferr := rc.mojang.GetUUIDs(sctx, names)
		if ferr != nil {
			rc.metrics.UpstreamRequests.WithLabelValues(EndpointUUIDs, classifyOutcome(ferr)).Inc()
			return nil, ferr
		}
		rc.metrics.UpstreamRequests.WithLabelValues(EndpointUUIDs, "success").Inc()

		byName := make(map[string]UuidPayload, len(found))
		for _, p := range found {
			byName[NormalizeName(p.Name)] = p
		}
		out := make(map[string]Envelope[UuidPayload], len(names))
		for _, n := range names {
			if p, ok := byName[n]; ok {
				e := Positive(p)
				rc.uuidCache.Put(context.Background(), n, e)
				out[n] = e
			} else {
				e := NegativeEnvelope[UuidPayload]()
				rc.uuidCache.Put(context.Background(), n, e)
				out[n] = e
			}
		}
		return out, nil
	})

	for _, d := range group {
		if upErr != nil {
			if isDegradable(upErr) && d.staleHit {
				rc.metrics.ServedStale.WithLabelValues(KindUUID).Inc()
				d.item = uuidBatchItemFromEnvelope(d.normalized, d.staleEnv)
				continue
			}
			d.item = UuidBatchItem{Requested: d.normalized, Err: classifyUpstreamErr(upErr)}
			continue
		}
		d.item = uuidBatchItemFromEnvelope(d.normalized, result[d.normalized])
	}
}
