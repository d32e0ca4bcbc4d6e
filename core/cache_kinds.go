package core

import "time"

// Kind name constants, used both as cache-kind tags and as remote-key
// namespace segments (§6: "xenos:{kind}:{hexkey}").
const (
	KindUUID           = "uuid"
	KindProfileSigned  = "profile_signed"
	KindProfileUnsigned = "profile_unsigned"
	KindSkin           = "skin"
	KindCape           = "cape"
	KindHead           = "head"
)

// CacheKindConfig bundles the TTL policy and local capacity for one kind —
// the abstract defaults table in §4.3.
type CacheKindConfig struct {
	Policy   TTLPolicy
	Capacity int64
}

// DefaultCacheConfig returns the §4.3 default table. Signed and unsigned
// profiles are two distinct namespaces (§4.4) sharing the "profile" row's
// policy.
func DefaultCacheConfig() map[string]CacheKindConfig {
	profile := CacheKindConfig{
		Policy: TTLPolicy{
			FreshTTL:     24 * time.Hour,
			StaleHorizon: 7 * 24 * time.Hour,
			NegativeTTL:  5 * time.Minute,
		},
		Capacity: 100_000,
	}
	textures := CacheKindConfig{
		Policy: TTLPolicy{
			FreshTTL:     24 * time.Hour,
			StaleHorizon: 30 * 24 * time.Hour,
			NegativeTTL:  5 * time.Minute,
		},
		Capacity: 50_000,
	}
	return map[string]CacheKindConfig{
		KindUUID:            profile,
		KindProfileSigned:   profile,
		KindProfileUnsigned: profile,
		KindSkin:            textures,
		KindCape:            textures,
		KindHead:            textures,
	}
}
