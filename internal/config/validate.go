package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}

	if strings.TrimSpace(c.Dictionary.Path) == "" {
		return fmt.Errorf("dictionary.path is required")
	}

	if err := c.Popularity.validate(); err != nil {
		return fmt.Errorf("popularity: %w", err)
	}

	if err := c.Generation.validate(); err != nil {
		return fmt.Errorf("generation: %w", err)
	}

	if err := c.Events.validate(); err != nil {
		return fmt.Errorf("events: %w", err)
	}

	return nil
}

func (p *PopularityConfig) validate() error {
	p.Backend = strings.ToLower(strings.TrimSpace(p.Backend))
	switch p.Backend {
	case PopularityBackendMemory, PopularityBackendRedis:
	default:
		return fmt.Errorf("backend must be %q or %q (got %q)", PopularityBackendMemory, PopularityBackendRedis, p.Backend)
	}
	if p.TopN < 1 {
		return fmt.Errorf("top_n must be >= 1 (got %d)", p.TopN)
	}
	return nil
}

// Anthropic model identifiers all start with this prefix.
const anthropicModelPrefix = "claude"

func (g *GenerationConfig) validate() error {
	g.TextProvider = strings.ToLower(strings.TrimSpace(g.TextProvider))
	switch g.TextProvider {
	case TextProviderOpenAI, TextProviderAnthropic:
	default:
		return fmt.Errorf("text_provider must be %q or %q (got %q)", TextProviderOpenAI, TextProviderAnthropic, g.TextProvider)
	}
	g.TextModel = strings.TrimSpace(g.TextModel)
	if g.TextModel == "" {
		return fmt.Errorf("text_model is required")
	}
	claudeModel := strings.HasPrefix(strings.ToLower(g.TextModel), anthropicModelPrefix)
	if g.TextProvider == TextProviderAnthropic && !claudeModel {
		return fmt.Errorf("text_model %q is not an anthropic model; set text_model when text_provider is %q", g.TextModel, TextProviderAnthropic)
	}
	if g.TextProvider == TextProviderOpenAI && claudeModel {
		return fmt.Errorf("text_model %q requires text_provider %q", g.TextModel, TextProviderAnthropic)
	}
	if g.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be > 0 (got %d)", g.MaxTokens)
	}
	if g.Timeout < 0 {
		return fmt.Errorf("timeout must be >= 0 (got %v)", g.Timeout)
	}
	return nil
}

func (e *EventsConfig) validate() error {
	e.Brokers = ParseList(e.BrokersRaw)
	if !e.Enabled {
		return nil
	}
	if len(e.Brokers) == 0 {
		return fmt.Errorf("brokers are required when events are enabled")
	}
	if strings.TrimSpace(e.Topic) == "" {
		return fmt.Errorf("topic is required when events are enabled")
	}
	if e.PublishTimeout < 0 {
		return fmt.Errorf("publish_timeout must be >= 0 (got %v)", e.PublishTimeout)
	}
	return nil
}

// ParseList splits a comma-separated string into trimmed, non-empty items.
// An empty string returns a nil slice.
func ParseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		items = append(items, p)
	}
	return items
}
