// Package config loads Xenos's configuration from a YAML file, environment
// variables and an optional .env file, the same two-library combination the
// rest of the codebase uses elsewhere (viper for the structured file/env
// merge, godotenv for local .env loading — see walletserver/config).
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"xenos/pkg/utils"
)

// UpstreamConfig carries the Mojang Client's base URLs and timeout (§6).
type UpstreamConfig struct {
	UUIDBaseURL      string        `mapstructure:"uuid_base_url" json:"uuid_base_url"`
	UUIDsBaseURL     string        `mapstructure:"uuids_base_url" json:"uuids_base_url"`
	ProfileBaseURL   string        `mapstructure:"profile_base_url" json:"profile_base_url"`
	TextureAllowHost string        `mapstructure:"texture_allow_host" json:"texture_allow_host"`
	RequestTimeout   time.Duration `mapstructure:"request_timeout" json:"request_timeout"`
}

// CacheKindYAML mirrors core.CacheKindConfig in a form viper/mapstructure
// can decode directly from YAML durations.
type CacheKindYAML struct {
	FreshTTL     time.Duration `mapstructure:"fresh_ttl" json:"fresh_ttl"`
	StaleHorizon time.Duration `mapstructure:"stale_horizon" json:"stale_horizon"`
	NegativeTTL  time.Duration `mapstructure:"negative_ttl" json:"negative_ttl"`
	Capacity     int64         `mapstructure:"capacity" json:"capacity"`
}

// AdmissionYAML mirrors core.AdmissionConfig for YAML decoding.
type AdmissionYAML struct {
	MaxConcurrent    int                `mapstructure:"max_concurrent" json:"max_concurrent"`
	PerEndpointRPS   map[string]float64 `mapstructure:"per_endpoint_rps" json:"per_endpoint_rps"`
	PerEndpointBurst map[string]int     `mapstructure:"per_endpoint_burst" json:"per_endpoint_burst"`
}

// RemoteCacheConfig selects and configures the shared remote cache tier
// (§4.3, §6). Driver is "none" or "redis-like"; a driver of "none" runs
// Xenos with only the local tier, which is a supported deployment shape.
type RemoteCacheConfig struct {
	Driver string `mapstructure:"driver" json:"driver"`
	Addr   string `mapstructure:"addr" json:"addr"`
}

// ListenConfig carries the three listener addresses (§6).
type ListenConfig struct {
	GRPC    string `mapstructure:"grpc" json:"grpc"`
	HTTP    string `mapstructure:"http" json:"http"`
	Metrics string `mapstructure:"metrics" json:"metrics"`
}

// LoggingConfig mirrors the teacher's own logging config shape.
type LoggingConfig struct {
	Level string `mapstructure:"level" json:"level"`
}

// Config is the unified, already-populated configuration handed into
// core.NewResolverContext — core itself never touches viper or the
// filesystem (§1: config loading is an external-collaborator boundary).
type Config struct {
	Upstream    UpstreamConfig           `mapstructure:"upstream" json:"upstream"`
	CacheKinds  map[string]CacheKindYAML `mapstructure:"cache_kinds" json:"cache_kinds"`
	Admission   AdmissionYAML            `mapstructure:"admission" json:"admission"`
	RemoteCache RemoteCacheConfig        `mapstructure:"remote_cache" json:"remote_cache"`
	Listen      ListenConfig             `mapstructure:"listen" json:"listen"`
	Logging     LoggingConfig            `mapstructure:"logging" json:"logging"`
	HTTPBearerToken string               `mapstructure:"http_bearer_token" json:"http_bearer_token"`
}

// AppConfig holds the configuration loaded via Load or LoadFromEnv.
var AppConfig Config

// Load reads config/default.yaml, merges an optional env-named override
// (config/<env>.yaml), loads a local .env file if present, then lets
// environment variables win over both (§6).
func Load(env string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, utils.Wrap(err, "load .env")
	}

	viper.SetConfigName("default")
	viper.AddConfigPath("config")
	viper.SetConfigType("yaml")
	setDefaults()
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, utils.Wrap(err, "load config")
		}
	}

	if env != "" {
		viper.SetConfigName(env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, utils.Wrap(err, fmt.Sprintf("merge %s config", env))
		}
	}

	viper.SetEnvPrefix("xenos")
	viper.AutomaticEnv()

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return nil, utils.Wrap(err, "unmarshal config")
	}
	return &AppConfig, nil
}

// LoadFromEnv loads configuration using the XENOS_ENV environment variable.
func LoadFromEnv() (*Config, error) {
	return Load(utils.EnvOrDefault("XENOS_ENV", ""))
}

// setDefaults seeds viper with the §6 defaults so a deployment with no
// config file at all still starts with working upstream URLs, cache
// policies and admission budgets.
func setDefaults() {
	viper.SetDefault("upstream.uuid_base_url", "https://api.mojang.com/users/profiles/minecraft")
	viper.SetDefault("upstream.uuids_base_url", "https://api.mojang.com/profiles/minecraft")
	viper.SetDefault("upstream.profile_base_url", "https://sessionserver.mojang.com/session/minecraft/profile")
	viper.SetDefault("upstream.texture_allow_host", "textures.minecraft.net")
	viper.SetDefault("upstream.request_timeout", 5*time.Second)

	viper.SetDefault("cache_kinds.uuid.fresh_ttl", 24*time.Hour)
	viper.SetDefault("cache_kinds.uuid.stale_horizon", 7*24*time.Hour)
	viper.SetDefault("cache_kinds.uuid.negative_ttl", 5*time.Minute)
	viper.SetDefault("cache_kinds.uuid.capacity", 100000)

	viper.SetDefault("cache_kinds.profile_signed.fresh_ttl", 24*time.Hour)
	viper.SetDefault("cache_kinds.profile_signed.stale_horizon", 7*24*time.Hour)
	viper.SetDefault("cache_kinds.profile_signed.negative_ttl", 5*time.Minute)
	viper.SetDefault("cache_kinds.profile_signed.capacity", 100000)

	viper.SetDefault("cache_kinds.profile_unsigned.fresh_ttl", 24*time.Hour)
	viper.SetDefault("cache_kinds.profile_unsigned.stale_horizon", 7*24*time.Hour)
	viper.SetDefault("cache_kinds.profile_unsigned.negative_ttl", 5*time.Minute)
	viper.SetDefault("cache_kinds.profile_unsigned.capacity", 100000)

	for _, k := range []string{"skin", "cape", "head"} {
		viper.SetDefault("cache_kinds."+k+".fresh_ttl", 24*time.Hour)
		viper.SetDefault("cache_kinds."+k+".stale_horizon", 30*24*time.Hour)
		viper.SetDefault("cache_kinds."+k+".negative_ttl", 5*time.Minute)
		viper.SetDefault("cache_kinds."+k+".capacity", 50000)
	}

	viper.SetDefault("admission.max_concurrent", 32)
	viper.SetDefault("admission.per_endpoint_rps", map[string]float64{
		"uuid": 0.5, "uuids": 0.5, "profile": 0.8, "textures": 0.9,
	})
	viper.SetDefault("admission.per_endpoint_burst", map[string]int{
		"uuid": 10, "uuids": 10, "profile": 15, "textures": 20,
	})

	viper.SetDefault("remote_cache.driver", "none")
	viper.SetDefault("listen.grpc", ":8090")
	viper.SetDefault("listen.http", ":8080")
	viper.SetDefault("listen.metrics", ":9090")
	viper.SetDefault("logging.level", "info")
}
