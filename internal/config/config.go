package config

import (
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Dictionary DictionaryConfig `yaml:"dictionary"`
	Popularity PopularityConfig `yaml:"popularity"`
	Redis      RedisConfig      `yaml:"redis"`
	Generation GenerationConfig `yaml:"generation"`
	Events     EventsConfig     `yaml:"events"`
	GraphQL    GraphQLConfig    `yaml:"graphql"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Log        LogConfig        `yaml:"log"`
	CORS       CORSConfig       `yaml:"cors"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Content-Type,X-Request-Id"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings. The write timeout is generous
// because generation requests wait on the upstream service.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"4000"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"120s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DictionaryConfig points at the static word list loaded at startup.
type DictionaryConfig struct {
	Path string `yaml:"path" env:"DICTIONARY_PATH" env-default:"./englishdictionary.json"`
}

// Popularity backends.
const (
	PopularityBackendMemory = "memory"
	PopularityBackendRedis  = "redis"
)

// PopularityConfig holds popular-searches leaderboard settings.
type PopularityConfig struct {
	Backend     string `yaml:"backend"      env:"POPULARITY_BACKEND"      env-default:"memory"`
	TopN        int    `yaml:"top_n"        env:"POPULARITY_TOP_N"        env-default:"10"`
	RedisPrefix string `yaml:"redis_prefix" env:"POPULARITY_REDIS_PREFIX" env-default:"popular"`
	// KeepOnStart keeps redis counters from a previous run instead of
	// clearing them at startup.
	KeepOnStart bool `yaml:"keep_on_start" env:"POPULARITY_KEEP_ON_START" env-default:"false"`
}

// RedisConfig holds Redis connection settings. Only used by the redis
// popularity backend.
type RedisConfig struct {
	Addr     string `yaml:"addr"     env:"REDIS_ADDR"     env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db"       env:"REDIS_DB"       env-default:"0"`
	PoolSize int    `yaml:"pool_size" env:"REDIS_POOL_SIZE" env-default:"10"`
}

// Text generation providers.
const (
	TextProviderOpenAI    = "openai"
	TextProviderAnthropic = "anthropic"
)

// GenerationConfig holds settings for the text and speech generation proxy.
type GenerationConfig struct {
	OpenAIAPIKey     string        `yaml:"openai_api_key"     env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string        `yaml:"openai_base_url"    env:"OPENAI_BASE_URL"`
	AnthropicAPIKey  string        `yaml:"anthropic_api_key"  env:"ANTHROPIC_API_KEY"`
	AnthropicBaseURL string        `yaml:"anthropic_base_url" env:"ANTHROPIC_BASE_URL"`
	TextProvider     string        `yaml:"text_provider"      env:"GENERATION_TEXT_PROVIDER" env-default:"openai"`
	TextModel        string        `yaml:"text_model"         env:"GENERATION_TEXT_MODEL"    env-default:"gpt-3.5-turbo"`
	SpeechModel      string        `yaml:"speech_model"       env:"GENERATION_SPEECH_MODEL"  env-default:"tts-1"`
	SystemPrompt     string        `yaml:"system_prompt"      env:"GENERATION_SYSTEM_PROMPT" env-default:"You are a helpful assistant."`
	MaxTokens        int           `yaml:"max_tokens"         env:"GENERATION_MAX_TOKENS"    env-default:"100"`
	Timeout          time.Duration `yaml:"timeout"            env:"GENERATION_TIMEOUT"       env-default:"0s"`
}

// TextAPIKey returns the API key of the configured text provider.
func (g GenerationConfig) TextAPIKey() string {
	if strings.EqualFold(g.TextProvider, TextProviderAnthropic) {
		return g.AnthropicAPIKey
	}
	return g.OpenAIAPIKey
}

// EventsConfig holds the optional search-event publisher settings.
type EventsConfig struct {
	Enabled    bool   `yaml:"enabled" env:"EVENTS_ENABLED" env-default:"false"`
	BrokersRaw string `yaml:"brokers" env:"EVENTS_BROKERS"`
	Topic      string `yaml:"topic"   env:"EVENTS_TOPIC"   env-default:"dictionary.searches"`
	// PublishTimeout bounds the time a search waits for the broker.
	PublishTimeout time.Duration `yaml:"publish_timeout" env:"EVENTS_PUBLISH_TIMEOUT" env-default:"250ms"`

	// Brokers is parsed from BrokersRaw during validation.
	Brokers []string `yaml:"-" env:"-"`
}

// GraphQLConfig holds GraphQL endpoint settings.
type GraphQLConfig struct {
	PlaygroundEnabled     bool `yaml:"playground_enabled"      env:"GRAPHQL_PLAYGROUND_ENABLED"      env-default:"false"`
	IntrospectionEnabled  bool `yaml:"introspection_enabled"   env:"GRAPHQL_INTROSPECTION_ENABLED"   env-default:"false"`
	AdminMutationsEnabled bool `yaml:"admin_mutations_enabled" env:"GRAPHQL_ADMIN_MUTATIONS_ENABLED" env-default:"false"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED" env-default:"true"`
	Path    string `yaml:"path"    env:"METRICS_PATH"    env-default:"/metrics"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
