package bot

import (
	"time"
)

// BotConfig represents the configuration for the bot
type BotConfig struct {
	// Suppression window for duplicate /start deliveries
	StartSuppressTTL time.Duration
	// Default delivery hours for newly created users
	DefaultMorningHour int
	DefaultEveningHour int
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() *BotConfig {
	return &BotConfig{
		StartSuppressTTL:   5 * time.Minute,
		DefaultMorningHour: 8,
		DefaultEveningHour: 21,
	}
}
