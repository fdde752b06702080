package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/thebartekbanach/imgpipe/pkg/transform"
)

const EnvPrefix = "IMGPIPE"

// maxDimension mirrors the hard cap of transformation sizes.
const maxDimension = 1 << 16

type Config struct {
	ServerAddr     string        `mapstructure:"server_addr"`
	ServeRoute     string        `mapstructure:"serve_route"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`

	PublicPath        string `mapstructure:"public_path"`
	BasePath          string `mapstructure:"base_path"`
	JsPath            string `mapstructure:"js_path"`
	VarImage          string `mapstructure:"var_image"`
	VarTransform      string `mapstructure:"var_transform"`
	VarResponsiveFlag string `mapstructure:"var_responsive_flag"`
	DeviceCookie      string `mapstructure:"device_cookie"`
	Breakpoints       string `mapstructure:"breakpoints"`

	WorkerEngine      string `mapstructure:"worker_engine"`
	ImaginaryURL      string `mapstructure:"imaginary_url"`
	VipsConcurrency   int    `mapstructure:"vips_concurrency"`
	VipsMaxCacheMemMB int    `mapstructure:"vips_max_cache_mem_mb"`
	SourceMaxSizeMB   int64  `mapstructure:"source_max_size_mb"`
	MaxDimension      int    `mapstructure:"max_dimension"`
	MaxSourcePixels   int    `mapstructure:"max_source_pixels"`

	CacheBackend    string        `mapstructure:"cache_backend"`
	CacheLifetime   time.Duration `mapstructure:"cache_lifetime"`
	MemoryMaxCostMB int64         `mapstructure:"memory_max_cost_mb"`

	MongoConnectionString string `mapstructure:"mongo_connection_string"`

	MinioEndpoint  string `mapstructure:"minio_endpoint"`
	MinioAccessKey string `mapstructure:"minio_access_key"`
	MinioSecretKey string `mapstructure:"minio_secret_key"`
	MinioBucket    string `mapstructure:"minio_bucket"`
	MinioLocation  string `mapstructure:"minio_location"`
	MinioSSL       bool   `mapstructure:"minio_ssl"`

	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`

	AllowedOrigins  string `mapstructure:"allowed_origins"`
	AllowedDomains  string `mapstructure:"allowed_domains"`
	InvalidateToken string `mapstructure:"invalidate_token"`

	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// Load reads the configuration from defaults, the optional config file and
// IMGPIPE_ prefixed environment variables, in increasing priority.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("cannot read config file %s: %w", configFile, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	for _, key := range v.AllKeys() {
		v.BindEnv(key)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("cannot decode config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_addr", ":8080")
	v.SetDefault("serve_route", "/img")
	v.SetDefault("request_timeout", "1m")

	v.SetDefault("public_path", "./public/")
	v.SetDefault("base_path", "./")
	v.SetDefault("js_path", "public/js/imgpipe.js")
	v.SetDefault("var_image", "img")
	v.SetDefault("var_transform", "t")
	v.SetDefault("var_responsive_flag", "r")
	v.SetDefault("device_cookie", "imgpipe_detection")
	v.SetDefault("breakpoints", "small=max-width=480;medium=min-width=481+max-width=1024;large=min-width=1025")

	v.SetDefault("worker_engine", "imaging")
	v.SetDefault("imaginary_url", "")
	v.SetDefault("vips_concurrency", 0)
	v.SetDefault("vips_max_cache_mem_mb", 0)
	v.SetDefault("source_max_size_mb", 32)
	v.SetDefault("max_dimension", 8192)
	v.SetDefault("max_source_pixels", 50_000_000)

	v.SetDefault("cache_backend", "memory")
	v.SetDefault("cache_lifetime", "720h")
	v.SetDefault("memory_max_cost_mb", 256)

	v.SetDefault("mongo_connection_string", "")

	v.SetDefault("minio_endpoint", "")
	v.SetDefault("minio_access_key", "")
	v.SetDefault("minio_secret_key", "")
	v.SetDefault("minio_bucket", "")
	v.SetDefault("minio_location", "us-east-1")
	v.SetDefault("minio_ssl", false)

	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)

	v.SetDefault("allowed_origins", "*")
	v.SetDefault("allowed_domains", "*")
	v.SetDefault("invalidate_token", "")

	v.SetDefault("rate_limit_rps", 100.0)
	v.SetDefault("rate_limit_burst", 200)
}

func (c *Config) Validate() error {
	switch c.WorkerEngine {
	case "imaging", "vips":
	case "imaginary":
		if c.ImaginaryURL == "" {
			return fmt.Errorf("%w: imaginary_url is required by imaginary engine", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown worker_engine %q", ErrInvalidConfig, c.WorkerEngine)
	}

	if c.MaxDimension <= 0 || c.MaxDimension > maxDimension {
		return fmt.Errorf("%w: max_dimension must be within [1, %d]", ErrInvalidConfig, maxDimension)
	}

	if c.MaxSourcePixels <= 0 {
		return fmt.Errorf("%w: max_source_pixels must be positive", ErrInvalidConfig)
	}

	switch c.CacheBackend {
	case "memory":
		if c.MemoryMaxCostMB <= 0 {
			return fmt.Errorf("%w: memory_max_cost_mb must be positive", ErrInvalidConfig)
		}
	case "redis":
		if c.RedisAddr == "" {
			return fmt.Errorf("%w: redis_addr is required by redis cache backend", ErrInvalidConfig)
		}
	case "mongo":
		if c.MongoConnectionString == "" || c.MinioEndpoint == "" {
			return fmt.Errorf("%w: mongo_connection_string and minio_endpoint are required by mongo cache backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown cache_backend %q", ErrInvalidConfig, c.CacheBackend)
	}

	if !strings.HasPrefix(c.ServeRoute, "/") {
		return fmt.Errorf("%w: serve_route must start with /", ErrInvalidConfig)
	}

	if _, err := c.ParsedBreakpoints(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}

func (c *Config) ParsedBreakpoints() (transform.Breakpoints, error) {
	return transform.ParseBreakpoints(c.Breakpoints)
}

func (c *Config) AllowedOriginList() []string {
	return splitList(c.AllowedOrigins)
}

func (c *Config) AllowedDomainList() []string {
	return splitList(c.AllowedDomains)
}

// splitList reads a comma separated list. An empty list allows everything.
func splitList(raw string) []string {
	var list []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}

	if len(list) == 0 {
		return []string{"*"}
	}

	return list
}

var ErrInvalidConfig = errors.New("invalid configuration")
