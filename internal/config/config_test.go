package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

const validYAML = `
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: "5s"
  write_timeout: "90s"
  idle_timeout: "30s"
  shutdown_timeout: "5s"

dictionary:
  path: "./testdata/words.json"

popularity:
  backend: "redis"
  top_n: 5
  redis_prefix: "popular-test"

redis:
  addr: "redis:6379"
  db: 2

generation:
  openai_api_key: "sk-test"
  text_provider: "anthropic"
  anthropic_api_key: "ak-test"
  text_model: "claude-haiku"
  speech_model: "tts-1-hd"
  max_tokens: 150
  timeout: "30s"

events:
  enabled: true
  brokers: "kafka-1:9092, kafka-2:9092"
  topic: "lookups"

graphql:
  introspection_enabled: true
  admin_mutations_enabled: true

log:
  level: "debug"
  format: "text"
`

func TestLoad_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Server
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Server.WriteTimeout != 90*time.Second {
		t.Errorf("server.write_timeout = %v, want %v", cfg.Server.WriteTimeout, 90*time.Second)
	}

	// Dictionary
	if cfg.Dictionary.Path != "./testdata/words.json" {
		t.Errorf("dictionary.path = %q", cfg.Dictionary.Path)
	}

	// Popularity
	if cfg.Popularity.Backend != PopularityBackendRedis {
		t.Errorf("popularity.backend = %q, want %q", cfg.Popularity.Backend, PopularityBackendRedis)
	}
	if cfg.Popularity.TopN != 5 {
		t.Errorf("popularity.top_n = %d, want 5", cfg.Popularity.TopN)
	}
	if cfg.Redis.Addr != "redis:6379" || cfg.Redis.DB != 2 {
		t.Errorf("redis = %+v", cfg.Redis)
	}

	// Generation
	if cfg.Generation.TextProvider != TextProviderAnthropic {
		t.Errorf("generation.text_provider = %q", cfg.Generation.TextProvider)
	}
	if cfg.Generation.TextAPIKey() != "ak-test" {
		t.Errorf("TextAPIKey() = %q, want %q", cfg.Generation.TextAPIKey(), "ak-test")
	}
	if cfg.Generation.SpeechModel != "tts-1-hd" {
		t.Errorf("generation.speech_model = %q", cfg.Generation.SpeechModel)
	}
	if cfg.Generation.MaxTokens != 150 {
		t.Errorf("generation.max_tokens = %d, want 150", cfg.Generation.MaxTokens)
	}
	if cfg.Generation.Timeout != 30*time.Second {
		t.Errorf("generation.timeout = %v, want 30s", cfg.Generation.Timeout)
	}
	if cfg.Generation.SystemPrompt != "You are a helpful assistant." {
		t.Errorf("generation.system_prompt = %q (default expected)", cfg.Generation.SystemPrompt)
	}

	// Events
	if !cfg.Events.Enabled {
		t.Error("events.enabled should be true")
	}
	if len(cfg.Events.Brokers) != 2 || cfg.Events.Brokers[1] != "kafka-2:9092" {
		t.Errorf("events.brokers = %v", cfg.Events.Brokers)
	}

	// GraphQL
	if !cfg.GraphQL.IntrospectionEnabled || !cfg.GraphQL.AdminMutationsEnabled {
		t.Errorf("graphql = %+v", cfg.GraphQL)
	}

	// Log
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want %q", cfg.Log.Level, "debug")
	}
	if cfg.Log.Format != "text" {
		t.Errorf("log.format = %q, want %q", cfg.Log.Format, "text")
	}
}

func TestLoad_ENVOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("SERVER_PORT", "3000")
	t.Setenv("POPULARITY_BACKEND", "memory")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("server.port = %d, want 3000 (ENV override)", cfg.Server.Port)
	}
	if cfg.Popularity.Backend != PopularityBackendMemory {
		t.Errorf("popularity.backend = %q, want %q (ENV override)", cfg.Popularity.Backend, PopularityBackendMemory)
	}
}

func TestLoad_NoFile_ENVOnly(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("DICTIONARY_PATH", "/data/englishdictionary.json")
	origDir, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	_ = os.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 4000 {
		t.Errorf("server.port = %d, want 4000 (default)", cfg.Server.Port)
	}
	if cfg.Dictionary.Path != "/data/englishdictionary.json" {
		t.Errorf("dictionary.path = %q", cfg.Dictionary.Path)
	}
	if cfg.Popularity.Backend != PopularityBackendMemory || cfg.Popularity.TopN != 10 {
		t.Errorf("popularity defaults = %+v", cfg.Popularity)
	}
	if cfg.Generation.TextModel != "gpt-3.5-turbo" || cfg.Generation.SpeechModel != "tts-1" {
		t.Errorf("generation defaults = %+v", cfg.Generation)
	}
	if cfg.Generation.MaxTokens != 100 {
		t.Errorf("generation.max_tokens = %d, want 100", cfg.Generation.MaxTokens)
	}
	if cfg.Generation.Timeout != 0 {
		t.Errorf("generation.timeout = %v, want 0 (no timeout)", cfg.Generation.Timeout)
	}
	if cfg.Events.Enabled {
		t.Error("events should be disabled by default")
	}
	if cfg.Events.PublishTimeout != 250*time.Millisecond {
		t.Errorf("events.publish_timeout = %v, want 250ms", cfg.Events.PublishTimeout)
	}
}

func TestLoad_AnthropicProviderNeedsClaudeModel(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("DICTIONARY_PATH", "/data/englishdictionary.json")
	t.Setenv("GENERATION_TEXT_PROVIDER", "anthropic")
	origDir, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	_ = os.Chdir(t.TempDir())

	_, err := Load()
	if err == nil {
		t.Fatal("expected error: default gpt-3.5-turbo model with anthropic provider")
	}
	if !strings.Contains(err.Error(), "text_model") {
		t.Errorf("error = %v, want it to mention text_model", err)
	}

	t.Setenv("GENERATION_TEXT_MODEL", "claude-3-5-haiku-latest")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Generation.TextProvider != TextProviderAnthropic {
		t.Errorf("text_provider = %q", cfg.Generation.TextProvider)
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, `{{{invalid yaml`)
	t.Setenv("CONFIG_PATH", path)

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func validConfig() Config {
	return Config{
		Server:     ServerConfig{Port: 4000},
		Dictionary: DictionaryConfig{Path: "./englishdictionary.json"},
		Popularity: PopularityConfig{Backend: "memory", TopN: 10},
		Generation: GenerationConfig{
			TextProvider: "openai",
			TextModel:    "gpt-3.5-turbo",
			SpeechModel:  "tts-1",
			MaxTokens:    100,
		},
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "port zero", mutate: func(c *Config) { c.Server.Port = 0 }},
		{name: "port too large", mutate: func(c *Config) { c.Server.Port = 70000 }},
		{name: "empty dictionary path", mutate: func(c *Config) { c.Dictionary.Path = "  " }},
		{name: "unknown backend", mutate: func(c *Config) { c.Popularity.Backend = "memcached" }},
		{name: "top n zero", mutate: func(c *Config) { c.Popularity.TopN = 0 }},
		{name: "unknown text provider", mutate: func(c *Config) { c.Generation.TextProvider = "cohere" }},
		{name: "max tokens zero", mutate: func(c *Config) { c.Generation.MaxTokens = 0 }},
		{name: "negative timeout", mutate: func(c *Config) { c.Generation.Timeout = -time.Second }},
		{name: "events without brokers", mutate: func(c *Config) { c.Events.Enabled = true; c.Events.Topic = "t" }},
		{name: "events without topic", mutate: func(c *Config) {
			c.Events.Enabled = true
			c.Events.BrokersRaw = "localhost:9092"
		}},
		{name: "negative publish timeout", mutate: func(c *Config) {
			c.Events.Enabled = true
			c.Events.BrokersRaw = "localhost:9092"
			c.Events.Topic = "t"
			c.Events.PublishTimeout = -time.Millisecond
		}},
		{name: "empty text model", mutate: func(c *Config) { c.Generation.TextModel = " " }},
		{name: "anthropic with openai model", mutate: func(c *Config) { c.Generation.TextProvider = "anthropic" }},
		{name: "openai with claude model", mutate: func(c *Config) { c.Generation.TextModel = "claude-3-5-haiku-latest" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestValidate_NormalizesEnums(t *testing.T) {
	cfg := validConfig()
	cfg.Popularity.Backend = " Redis "
	cfg.Generation.TextProvider = "OpenAI"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Popularity.Backend != PopularityBackendRedis {
		t.Errorf("backend = %q, want %q", cfg.Popularity.Backend, PopularityBackendRedis)
	}
	if cfg.Generation.TextProvider != TextProviderOpenAI {
		t.Errorf("text_provider = %q, want %q", cfg.Generation.TextProvider, TextProviderOpenAI)
	}
}

func TestValidate_MissingAPIKeyIsAllowed(t *testing.T) {
	cfg := validConfig()
	cfg.Generation.OpenAIAPIKey = ""

	if err := cfg.Validate(); err != nil {
		t.Fatalf("missing API key should not fail validation: %v", err)
	}
}

func TestParseList(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{raw: "", want: nil},
		{raw: "   ", want: nil},
		{raw: "a:1", want: []string{"a:1"}},
		{raw: "a:1, b:2 ,,c:3", want: []string{"a:1", "b:2", "c:3"}},
	}
	for _, tt := range tests {
		got := ParseList(tt.raw)
		if len(got) != len(tt.want) {
			t.Fatalf("ParseList(%q) = %v, want %v", tt.raw, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ParseList(%q)[%d] = %q, want %q", tt.raw, i, got[i], tt.want[i])
			}
		}
	}
}
