package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Provider names accepted in providers.order.
const (
	ProviderRapidAPI  = "rapidapi"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Sources   SourcesConfig   `mapstructure:"sources"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Stream    StreamConfig    `mapstructure:"stream"`
}

type ServerConfig struct {
	Port        string   `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_origins"`
	// AuditEndpoint exposes GET /api/ai/audit; records carry client IPs.
	AuditEndpoint bool `mapstructure:"audit_endpoint"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type ProvidersConfig struct {
	// Order is the priority in which configured providers are tried.
	Order     []string       `mapstructure:"order"`
	RapidAPI  ProviderConfig `mapstructure:"rapidapi"`
	OpenAI    ProviderConfig `mapstructure:"openai"`
	Anthropic ProviderConfig `mapstructure:"anthropic"`
}

type ProviderConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	APIKey     string        `mapstructure:"api_key"`
	Model      string        `mapstructure:"model"`
	BaseURL    string        `mapstructure:"base_url"`
	Host       string        `mapstructure:"host"`
	MaxTokens  int           `mapstructure:"max_tokens"`
	Timeout    time.Duration `mapstructure:"timeout"`
	DailyLimit int           `mapstructure:"daily_limit"` // 0 = unlimited
}

// Active reports whether the provider should take part in the fallback chain.
func (p ProviderConfig) Active() bool {
	if !p.Enabled {
		return false
	}
	key := strings.TrimSpace(p.APIKey)
	if key == "" {
		return false
	}
	// Template values such as "your_openai_api_key_here" count as unset.
	return !strings.HasSuffix(strings.ToLower(key), "_here")
}

// Get returns the provider section for a name from providers.order.
func (p ProvidersConfig) Get(name string) (ProviderConfig, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ProviderRapidAPI:
		return p.RapidAPI, true
	case ProviderOpenAI:
		return p.OpenAI, true
	case ProviderAnthropic:
		return p.Anthropic, true
	default:
		return ProviderConfig{}, false
	}
}

type SourcesConfig struct {
	CoinGeckoURL          string        `mapstructure:"coingecko_url"`
	CoinGeckoAPIKey       string        `mapstructure:"coingecko_api_key"`
	DefiLlamaProtocolsURL string        `mapstructure:"defillama_protocols_url"`
	DefiLlamaYieldsURL    string        `mapstructure:"defillama_yields_url"`
	EtherscanURL          string        `mapstructure:"etherscan_url"`
	EtherscanAPIKey       string        `mapstructure:"etherscan_api_key"`
	Timeout               time.Duration `mapstructure:"timeout"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type RateLimitConfig struct {
	QPS   float64 `mapstructure:"qps"`
	Burst int     `mapstructure:"burst"`
}

type StreamConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "3001")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.audit_endpoint", false)
	v.SetDefault("log.level", "info")

	v.SetDefault("providers.order", []string{ProviderRapidAPI, ProviderOpenAI, ProviderAnthropic})

	v.SetDefault("providers.rapidapi.enabled", true)
	v.SetDefault("providers.rapidapi.api_key", "")
	v.SetDefault("providers.rapidapi.base_url", "https://chatgpt-api8.p.rapidapi.com/")
	v.SetDefault("providers.rapidapi.host", "chatgpt-api8.p.rapidapi.com")
	v.SetDefault("providers.rapidapi.timeout", 15*time.Second)
	v.SetDefault("providers.rapidapi.daily_limit", 0)

	v.SetDefault("providers.openai.enabled", true)
	v.SetDefault("providers.openai.api_key", "")
	v.SetDefault("providers.openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("providers.openai.model", "gpt-3.5-turbo")
	v.SetDefault("providers.openai.max_tokens", 1000)
	v.SetDefault("providers.openai.timeout", 30*time.Second)
	v.SetDefault("providers.openai.daily_limit", 0)

	v.SetDefault("providers.anthropic.enabled", true)
	v.SetDefault("providers.anthropic.api_key", "")
	v.SetDefault("providers.anthropic.base_url", "")
	v.SetDefault("providers.anthropic.model", "claude-3-5-haiku-latest")
	v.SetDefault("providers.anthropic.max_tokens", 1024)
	v.SetDefault("providers.anthropic.timeout", 30*time.Second)
	v.SetDefault("providers.anthropic.daily_limit", 0)

	v.SetDefault("sources.coingecko_url", "https://api.coingecko.com/api/v3/simple/price")
	v.SetDefault("sources.coingecko_api_key", "")
	v.SetDefault("sources.defillama_protocols_url", "https://api.llama.fi/protocols")
	v.SetDefault("sources.defillama_yields_url", "https://yields.llama.fi/pools")
	v.SetDefault("sources.etherscan_url", "https://api.etherscan.io/api")
	v.SetDefault("sources.etherscan_api_key", "")
	v.SetDefault("sources.timeout", 10*time.Second)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("database.dsn", "")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("rate_limit.qps", 2.0)
	v.SetDefault("rate_limit.burst", 5)

	v.SetDefault("stream.interval", 30*time.Second)
}

// Load reads config.yaml (if present) and YIELDGATE_* environment variables.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	// e.g. YIELDGATE_PROVIDERS_OPENAI_API_KEY
	v.SetEnvPrefix("yieldgate")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("No config file found, using defaults and env vars")
		} else {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.Providers.Order = normalizeOrder(cfg.Providers.Order)

	return &cfg, nil
}

// Default returns the configuration Load would produce with no file and no env.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	cfg.Providers.Order = normalizeOrder(cfg.Providers.Order)
	return &cfg
}

// normalizeOrder lowercases names, splits comma lists coming from env vars and drops duplicates.
func normalizeOrder(order []string) []string {
	seen := make(map[string]bool, len(order))
	out := make([]string, 0, len(order))
	for _, entry := range order {
		for _, name := range strings.Split(entry, ",") {
			name = strings.ToLower(strings.TrimSpace(name))
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}
