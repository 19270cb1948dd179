package progression

import "github.com/example/flowbot/internal/taskpool"

// Границы фаз программы
const (
	easyPhaseMaxDay = 5
	midPhaseMaxDay  = 10
)

// TierConfigForDay returns the canonical tier configuration for a program day.
// Days past 15 are "bonus/flow" days and keep the late-phase configuration.
func TierConfigForDay(day int) taskpool.TierConfig {
	if day < 1 {
		day = 1
	}
	switch {
	case day <= easyPhaseMaxDay:
		return taskpool.TierConfig{Easy: 30}
	case day <= midPhaseMaxDay:
		return taskpool.TierConfig{Easy: 15, Standard: 10}
	default:
		return taskpool.TierConfig{
			Easy:     10,
			Standard: 12,
			Hard:     9, // один слот занимает задача планирования
			Magic:    day >= taskpool.MagicUnlockDay,
		}
	}
}
