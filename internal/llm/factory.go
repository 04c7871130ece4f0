package llm

import (
	"github.com/GoPolymarket/yieldgate/internal/config"
	"github.com/GoPolymarket/yieldgate/internal/pkg/logger"
)

// NewProvider builds the provider registered under name.
func NewProvider(name string, cfg config.ProviderConfig) (Provider, bool) {
	switch name {
	case config.ProviderRapidAPI:
		return NewRapidAPIProvider(cfg), true
	case config.ProviderOpenAI:
		return NewOpenAIProvider(cfg), true
	case config.ProviderAnthropic:
		return NewAnthropicProvider(cfg), true
	default:
		return nil, false
	}
}

// MembersFromConfig returns the active providers in configured order.
func MembersFromConfig(cfg config.ProvidersConfig) []Member {
	var members []Member
	for _, name := range cfg.Order {
		pc, ok := cfg.Get(name)
		if !ok {
			logger.Warn("unknown provider in order", "provider", name)
			continue
		}
		if !pc.Active() {
			logger.Debug("provider not configured", "provider", name, "configured", false)
			continue
		}
		p, _ := NewProvider(name, pc)
		members = append(members, Member{Provider: p, Timeout: pc.Timeout, DailyLimit: pc.DailyLimit})
		logger.Info("provider enabled", "provider", name, "configured", true, "daily_limit", pc.DailyLimit)
	}
	return members
}
