package taskpool

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/example/flowbot/pkg/models"
)

// ErrInvalidConfig indicates a malformed tier configuration
var ErrInvalidConfig = errors.New("invalid tier config")

// Default unlock thresholds of the 15-day program
const (
	// HardUnlockDay — день, с которого открываются сложные задачи
	// и задача планирования
	HardUnlockDay = 11
	// MagicUnlockDay — день, с которого доступен бонусный magic-слот
	MagicUnlockDay = 16
)

// TierConfig holds the requested number of tasks per difficulty tier
// plus the single optional magic slot
type TierConfig struct {
	Easy     int
	Standard int
	Hard     int
	Magic    bool
}

// Validate rejects negative counts before any selection happens
func (c TierConfig) Validate() error {
	if c.Easy < 0 || c.Standard < 0 || c.Hard < 0 {
		return fmt.Errorf("%w: counts must be non-negative (easy=%d, standard=%d, hard=%d)",
			ErrInvalidConfig, c.Easy, c.Standard, c.Hard)
	}
	return nil
}

// Entry is one selected task with its difficulty tier
type Entry struct {
	Text     string
	Type     models.TaskType
	Category Category
}

// Selector picks balanced, duplicate-free task sets from fixed in-memory pools
type Selector struct {
	EasyPool     []PoolTask
	StandardPool []PoolTask
	HardPool     []PoolTask
	MagicPool    []PoolTask
	// PlanningText занимает один слот сложного уровня начиная с HardUnlock
	PlanningText string
	HardUnlock   int
	MagicUnlock  int
}

// New returns a selector over the production pools
func New() *Selector {
	return &Selector{
		EasyPool:     easyPool,
		StandardPool: standardPool,
		HardPool:     hardPool,
		MagicPool:    magicPool,
		PlanningText: PlanningTaskText,
		HardUnlock:   HardUnlockDay,
		MagicUnlock:  MagicUnlockDay,
	}
}

// Select returns a category-balanced, duplicate-free task list for the given
// day. The selection is freshly shuffled on every call; there is no
// reproducibility guarantee across calls.
func (s *Selector) Select(cfg TierConfig, day int) ([]Entry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if day < 1 {
		return nil, fmt.Errorf("%w: day must be positive, got %d", ErrInvalidConfig, day)
	}

	// Задача планирования занимает один слот сложного уровня
	hardQuota := cfg.Hard
	planning := false
	if day >= s.HardUnlock && cfg.Hard > 0 {
		planning = true
		hardQuota--
	}

	var picked []Entry
	if planning {
		picked = append(picked, Entry{Text: s.PlanningText, Type: models.TaskTypeHard, Category: CategoryMental})
	}
	picked = append(picked, pickBalanced(s.EasyPool, cfg.Easy, models.TaskTypeEasy)...)
	picked = append(picked, pickBalanced(s.StandardPool, cfg.Standard, models.TaskTypeStandard)...)
	picked = append(picked, pickBalanced(s.HardPool, hardQuota, models.TaskTypeHard)...)

	// Cross-tier de-duplication on normalized text
	used := make(map[string]bool, len(picked))
	out := make([]Entry, 0, len(picked)+1)
	for _, e := range picked {
		key := normalize(e.Text)
		if used[key] {
			continue
		}
		used[key] = true
		out = append(out, e)
	}

	// Backfill to the requested total from the union of pools, in pool order.
	// When the hard pool is empty by design, the unfilled hard quota is not a
	// shortfall: those slots are user-authored only.
	target := cfg.Easy + cfg.Standard + hardQuota
	if len(s.HardPool) == 0 {
		target -= hardQuota
	}
	if planning {
		target++
	}
	if len(out) < target {
		backfill := []struct {
			pool []PoolTask
			typ  models.TaskType
		}{
			{s.EasyPool, models.TaskTypeEasy},
			{s.StandardPool, models.TaskTypeStandard},
			{s.HardPool, models.TaskTypeHard},
		}
		for _, src := range backfill {
			for _, c := range src.pool {
				if len(out) >= target {
					break
				}
				key := normalize(c.Text)
				if used[key] {
					continue
				}
				used[key] = true
				out = append(out, Entry{Text: c.Text, Type: src.typ, Category: c.Category})
			}
		}
	}

	// Единственный бонусный magic-слот, без памяти между днями
	if cfg.Magic && day >= s.MagicUnlock && len(s.MagicPool) > 0 {
		for _, i := range rand.Perm(len(s.MagicPool)) {
			c := s.MagicPool[i]
			key := normalize(c.Text)
			if used[key] {
				continue
			}
			used[key] = true
			out = append(out, Entry{Text: c.Text, Type: models.TaskTypeMagic, Category: c.Category})
			break
		}
	}

	return out, nil
}

// pickBalanced pulls up to count entries from a shuffled copy of the pool,
// walking a round-robin over the five categories. When no unused candidate
// of the current category remains, any remaining candidate is taken instead.
func pickBalanced(pool []PoolTask, count int, typ models.TaskType) []Entry {
	if count <= 0 || len(pool) == 0 {
		return nil
	}

	shuffled := make([]PoolTask, len(pool))
	copy(shuffled, pool)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	taken := make([]bool, len(shuffled))
	out := make([]Entry, 0, count)
	for round := 0; len(out) < count; round++ {
		want := allCategories[round%len(allCategories)]
		idx := -1
		for i := range shuffled {
			if !taken[i] && shuffled[i].Category == want {
				idx = i
				break
			}
		}
		if idx == -1 {
			// Fallback: any remaining unused candidate
			for i := range shuffled {
				if !taken[i] {
					idx = i
					break
				}
			}
		}
		if idx == -1 {
			break // pool exhausted
		}
		taken[idx] = true
		out = append(out, Entry{Text: shuffled[idx].Text, Type: typ, Category: shuffled[idx].Category})
	}
	return out
}
