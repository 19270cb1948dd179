package taskpool

import (
	"testing"

	"github.com/example/flowbot/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countByType(entries []Entry) map[models.TaskType]int {
	counts := make(map[models.TaskType]int)
	for _, e := range entries {
		counts[e.Type]++
	}
	return counts
}

func TestSelect_EarlyPhase(t *testing.T) {
	s := New()

	entries, err := s.Select(TierConfig{Easy: 30}, 3)
	require.NoError(t, err)

	assert.Len(t, entries, 30)
	counts := countByType(entries)
	assert.Equal(t, 30, counts[models.TaskTypeEasy])
	assert.Zero(t, counts[models.TaskTypeStandard])
	assert.Zero(t, counts[models.TaskTypeHard])
	assert.Zero(t, counts[models.TaskTypeMagic])
}

func TestSelect_LatePhaseWithPlanning(t *testing.T) {
	s := New()

	entries, err := s.Select(TierConfig{Easy: 10, Standard: 12, Hard: 9}, 12)
	require.NoError(t, err)

	require.Len(t, entries, 31)
	assert.Equal(t, s.PlanningText, entries[0].Text, "planning task leads the batch")
	assert.Equal(t, models.TaskTypeHard, entries[0].Type)

	counts := countByType(entries)
	assert.Equal(t, 10, counts[models.TaskTypeEasy])
	assert.Equal(t, 12, counts[models.TaskTypeStandard])
	assert.Equal(t, 9, counts[models.TaskTypeHard], "planning task fills one hard slot")
	assert.Zero(t, counts[models.TaskTypeMagic])
}

func TestSelect_MagicSlot(t *testing.T) {
	s := New()

	t.Run("appended once the magic phase starts", func(t *testing.T) {
		entries, err := s.Select(TierConfig{Easy: 10, Standard: 12, Hard: 9, Magic: true}, 16)
		require.NoError(t, err)

		require.Len(t, entries, 32)
		assert.Equal(t, models.TaskTypeMagic, entries[len(entries)-1].Type, "magic is always last")
		assert.Equal(t, 1, countByType(entries)[models.TaskTypeMagic])
	})

	t.Run("ignored before the magic phase even when requested", func(t *testing.T) {
		entries, err := s.Select(TierConfig{Easy: 10, Standard: 12, Hard: 9, Magic: true}, 12)
		require.NoError(t, err)
		assert.Zero(t, countByType(entries)[models.TaskTypeMagic])
	})
}

func TestSelect_NoDuplicates(t *testing.T) {
	s := New()

	for day := 1; day <= 20; day++ {
		cfg := TierConfig{Easy: 10, Standard: 12, Hard: 9, Magic: day >= MagicUnlockDay}
		if day <= 5 {
			cfg = TierConfig{Easy: 30}
		} else if day <= 10 {
			cfg = TierConfig{Easy: 15, Standard: 10}
		}

		entries, err := s.Select(cfg, day)
		require.NoError(t, err)

		seen := make(map[string]bool, len(entries))
		for _, e := range entries {
			key := normalize(e.Text)
			assert.Falsef(t, seen[key], "day %d: duplicate task %q", day, e.Text)
			seen[key] = true
		}
	}
}

func TestSelect_InvalidInput(t *testing.T) {
	s := New()

	_, err := s.Select(TierConfig{Easy: -1}, 3)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = s.Select(TierConfig{Easy: 10}, 0)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestSelect_EmptyHardPool(t *testing.T) {
	// Без пула сложных задач квота hard остается пустой: эти слоты
	// заполняются только пользовательскими задачами
	s := &Selector{
		EasyPool: []PoolTask{
			{Text: "easy one", Category: CategoryPhysical},
			{Text: "easy two", Category: CategoryMental},
		},
		StandardPool: []PoolTask{
			{Text: "standard one", Category: CategoryCreative},
			{Text: "standard two", Category: CategorySocial},
		},
		PlanningText: "plan the day",
		HardUnlock:   HardUnlockDay,
		MagicUnlock:  MagicUnlockDay,
	}

	entries, err := s.Select(TierConfig{Easy: 2, Standard: 2, Hard: 3}, 12)
	require.NoError(t, err)

	require.Len(t, entries, 5)
	counts := countByType(entries)
	assert.Equal(t, 1, counts[models.TaskTypeHard], "only the planning task is hard")
	assert.Equal(t, "plan the day", entries[0].Text)
}

func TestSelect_DeduplicatesAcrossTiers(t *testing.T) {
	s := &Selector{
		EasyPool:     []PoolTask{{Text: "Выпить стакан воды", Category: CategoryPhysical}},
		StandardPool: []PoolTask{{Text: "  выпить стакан воды ", Category: CategoryPhysical}},
		PlanningText: "plan the day",
		HardUnlock:   HardUnlockDay,
		MagicUnlock:  MagicUnlockDay,
	}

	entries, err := s.Select(TierConfig{Easy: 1, Standard: 1}, 3)
	require.NoError(t, err)

	require.Len(t, entries, 1, "same text in a different tier is still a duplicate")
	assert.Equal(t, models.TaskTypeEasy, entries[0].Type)
}

func TestSelect_BackfillsShortfall(t *testing.T) {
	// Запрошено больше легких, чем есть в пуле: недостачу добирает
	// стандартный пул
	s := &Selector{
		EasyPool: []PoolTask{
			{Text: "easy one", Category: CategoryPhysical},
		},
		StandardPool: []PoolTask{
			{Text: "standard one", Category: CategoryMental},
			{Text: "standard two", Category: CategoryCreative},
		},
		PlanningText: "plan the day",
		HardUnlock:   HardUnlockDay,
		MagicUnlock:  MagicUnlockDay,
	}

	entries, err := s.Select(TierConfig{Easy: 3}, 3)
	require.NoError(t, err)

	require.Len(t, entries, 3)
	counts := countByType(entries)
	assert.Equal(t, 1, counts[models.TaskTypeEasy])
	assert.Equal(t, 2, counts[models.TaskTypeStandard])
}

func TestPickBalanced_CategorySpread(t *testing.T) {
	pool := []PoolTask{
		{Text: "p1", Category: CategoryPhysical},
		{Text: "p2", Category: CategoryPhysical},
		{Text: "m1", Category: CategoryMental},
		{Text: "m2", Category: CategoryMental},
		{Text: "c1", Category: CategoryCreative},
		{Text: "c2", Category: CategoryCreative},
		{Text: "s1", Category: CategorySocial},
		{Text: "s2", Category: CategorySocial},
		{Text: "h1", Category: CategoryHousehold},
		{Text: "h2", Category: CategoryHousehold},
	}

	entries := pickBalanced(pool, 5, models.TaskTypeEasy)
	require.Len(t, entries, 5)

	seen := make(map[Category]int)
	for _, e := range entries {
		seen[e.Category]++
	}
	for _, cat := range allCategories {
		assert.Equalf(t, 1, seen[cat], "category %s should appear exactly once", cat)
	}
}

func TestPickBalanced_PoolExhausted(t *testing.T) {
	pool := []PoolTask{
		{Text: "only one", Category: CategoryMental},
	}
	entries := pickBalanced(pool, 5, models.TaskTypeEasy)
	assert.Len(t, entries, 1)
}

func TestProductionPools(t *testing.T) {
	s := New()

	assert.GreaterOrEqual(t, len(s.EasyPool), 30, "easy pool must cover the early-phase batch")
	assert.GreaterOrEqual(t, len(s.StandardPool), 12)
	assert.GreaterOrEqual(t, len(s.HardPool), 8)
	assert.NotEmpty(t, s.MagicPool)
	assert.NotEmpty(t, s.PlanningText)
}
