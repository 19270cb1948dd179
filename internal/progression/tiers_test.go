package progression

import (
	"testing"

	"github.com/example/flowbot/internal/taskpool"
	"github.com/stretchr/testify/assert"
)

func TestTierConfigForDay(t *testing.T) {
	tests := []struct {
		day  int
		want taskpool.TierConfig
	}{
		{1, taskpool.TierConfig{Easy: 30}},
		{5, taskpool.TierConfig{Easy: 30}},
		{6, taskpool.TierConfig{Easy: 15, Standard: 10}},
		{10, taskpool.TierConfig{Easy: 15, Standard: 10}},
		{11, taskpool.TierConfig{Easy: 10, Standard: 12, Hard: 9}},
		{15, taskpool.TierConfig{Easy: 10, Standard: 12, Hard: 9}},
		{16, taskpool.TierConfig{Easy: 10, Standard: 12, Hard: 9, Magic: true}},
		// Дни после 15-го сохраняют позднюю конфигурацию
		{30, taskpool.TierConfig{Easy: 10, Standard: 12, Hard: 9, Magic: true}},
		// Некорректный день приводится к первому
		{0, taskpool.TierConfig{Easy: 30}},
		{-3, taskpool.TierConfig{Easy: 30}},
	}

	for _, tt := range tests {
		assert.Equalf(t, tt.want, TierConfigForDay(tt.day), "day %d", tt.day)
	}
}
