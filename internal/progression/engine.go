package progression

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/example/flowbot/internal/taskpool"
	"github.com/example/flowbot/pkg/models"
)

// ErrNotFound indicates the referenced user, task or day record does not exist
var ErrNotFound = errors.New("not found")

// UserStore is the subset of user persistence the engine needs
type UserStore interface {
	GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
	UpdateLevel(ctx context.Context, telegramID int64, level int) error
	UpdateStreakMirror(ctx context.Context, telegramID int64, current, longest int) error
	SetOnboardingCompleted(ctx context.Context, telegramID int64, completed bool) error
	ResetProgress(ctx context.Context, telegramID int64) error
}

// TaskStore persists day batches and individual task mutations
type TaskStore interface {
	ReplaceBatch(ctx context.Context, userID int64, date string, tasks []models.Task) error
	Insert(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id int64) (*models.Task, error)
	GetForDay(ctx context.Context, userID int64, date string) ([]models.Task, error)
	// SetCompleted flips the completion flag only when it differs from the
	// stored value and reports whether a row actually changed.
	SetCompleted(ctx context.Context, id int64, completed bool, completedAt string) (bool, error)
	DeleteAllForUser(ctx context.Context, userID int64) error
}

// StatsStore persists the per-day counters and derived scores
type StatsStore interface {
	InitDay(ctx context.Context, userID int64, date string, totalTasks int) error
	GetByUserAndDate(ctx context.Context, userID int64, date string) (*models.DailyStats, error)
	UpdateCounters(ctx context.Context, stats *models.DailyStats) error
	DeleteAllForUser(ctx context.Context, userID int64) error
}

// StreakStore persists the per-user streak record
type StreakStore interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Streak, error)
	Upsert(ctx context.Context, streak *models.Streak) error
	Reset(ctx context.Context, userID int64) error
}

// DayCompletionResult is returned by CheckDayCompletion
type DayCompletionResult struct {
	Completed      bool
	StreakCredited bool
	NewLevel       int
}

// Engine owns the progression state machine: day generation, completion
// accounting, level advancement and streak crediting. All mutating operations
// on one user's day are serialized through a per-(user, date) mutex; nothing
// here retries or suppresses store errors.
type Engine struct {
	selector *taskpool.Selector
	users    UserStore
	tasks    TaskStore
	stats    StatsStore
	streaks  StreakStore

	mu       sync.Mutex
	dayLocks map[string]*sync.Mutex
}

// NewEngine creates a progression engine over the given stores
func NewEngine(selector *taskpool.Selector, users UserStore, tasks TaskStore, stats StatsStore, streaks StreakStore) *Engine {
	return &Engine{
		selector: selector,
		users:    users,
		tasks:    tasks,
		stats:    stats,
		streaks:  streaks,
		dayLocks: make(map[string]*sync.Mutex),
	}
}

// lockDay serializes mutations for one (user, date) key
func (e *Engine) lockDay(userID int64, date string) func() {
	key := fmt.Sprintf("%d:%s", userID, date)
	e.mu.Lock()
	l, ok := e.dayLocks[key]
	if !ok {
		l = &sync.Mutex{}
		e.dayLocks[key] = l
	}
	e.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// GenerateDay builds the task batch for a program day and persists it as the
// user's batch for the given date. Regeneration is a full transactional
// replace: the previous batch for the date is never merged with the new one.
// Level is NOT advanced here; it advances only in CheckDayCompletion.
func (e *Engine) GenerateDay(ctx context.Context, userID int64, day int, date string) ([]models.Task, error) {
	unlock := e.lockDay(userID, date)
	defer unlock()

	cfg := TierConfigForDay(day)
	entries, err := e.selector.Select(cfg, day)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	batch := make([]models.Task, 0, len(entries))
	for i, entry := range entries {
		batch = append(batch, models.Task{
			UserID:    userID,
			TaskDate:  date,
			TaskText:  entry.Text,
			TaskType:  entry.Type,
			Position:  i + 1,
			CreatedAt: now,
		})
	}

	if err := e.tasks.ReplaceBatch(ctx, userID, date, batch); err != nil {
		return nil, fmt.Errorf("failed to replace day batch: %w", err)
	}
	if err := e.stats.InitDay(ctx, userID, date, len(batch)); err != nil {
		return nil, fmt.Errorf("failed to init daily stats: %w", err)
	}

	return e.tasks.GetForDay(ctx, userID, date)
}

// HasBatch reports whether a batch already exists for the date. Scheduled
// deliveries check this first so a repeated tick does not re-roll the day.
func (e *Engine) HasBatch(ctx context.Context, userID int64, date string) (bool, error) {
	tasks, err := e.tasks.GetForDay(ctx, userID, date)
	if err != nil {
		return false, err
	}
	return len(tasks) > 0, nil
}

// GetDay returns the user's batch for the date, ordered by position
func (e *Engine) GetDay(ctx context.Context, userID int64, date string) ([]models.Task, error) {
	return e.tasks.GetForDay(ctx, userID, date)
}

// RecordCompletion marks a single task complete and refreshes the day's
// statistics. Completing an already-completed task changes nothing.
func (e *Engine) RecordCompletion(ctx context.Context, taskID int64) (*models.Task, error) {
	return e.setCompletion(ctx, taskID, true)
}

// RecordUncompletion reverts a task to incomplete and refreshes the day's
// statistics
func (e *Engine) RecordUncompletion(ctx context.Context, taskID int64) (*models.Task, error) {
	return e.setCompletion(ctx, taskID, false)
}

func (e *Engine) setCompletion(ctx context.Context, taskID int64, completed bool) (*models.Task, error) {
	task, err := e.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	unlock := e.lockDay(task.UserID, task.TaskDate)
	defer unlock()

	completedAt := ""
	if completed {
		completedAt = time.Now().UTC().Format(time.RFC3339)
	}
	changed, err := e.tasks.SetCompleted(ctx, taskID, completed, completedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update task completion: %w", err)
	}
	if changed {
		if err := e.refreshStats(ctx, task.UserID, task.TaskDate); err != nil {
			return nil, err
		}
	}

	return e.tasks.GetByID(ctx, taskID)
}

// refreshStats recomputes the day's counters from the tasks table. The tasks
// rows are the source of truth; the counters are a cache. Must be called with
// the day lock held.
func (e *Engine) refreshStats(ctx context.Context, userID int64, date string) error {
	tasks, err := e.tasks.GetForDay(ctx, userID, date)
	if err != nil {
		return fmt.Errorf("failed to read day batch: %w", err)
	}
	stats := tallyStats(userID, date, tasks)
	if err := e.stats.UpdateCounters(ctx, stats); err != nil {
		return fmt.Errorf("failed to update daily stats: %w", err)
	}
	return nil
}

// tallyStats derives the full counter row from a day batch
func tallyStats(userID int64, date string, tasks []models.Task) *models.DailyStats {
	s := &models.DailyStats{
		UserID:     userID,
		StatDate:   date,
		TotalTasks: len(tasks),
	}
	for _, t := range tasks {
		if !t.Completed {
			continue
		}
		s.CompletedTotal++
		switch t.TaskType {
		case models.TaskTypeEasy:
			s.CompletedEasy++
		case models.TaskTypeStandard:
			s.CompletedStandard++
		case models.TaskTypeHard:
			s.CompletedHard++
		case models.TaskTypeMagic:
			s.MagicCompleted = true
		}
	}
	if s.TotalTasks > 0 {
		s.FlowScore = int(math.Round(float64(s.CompletedTotal) / float64(s.TotalTasks) * 100))
	}
	s.ProductivityIndex = s.CompletedEasy + 2*s.CompletedStandard + 3*s.CompletedHard
	if s.MagicCompleted {
		s.ProductivityIndex += 10
	}
	return s
}

// CheckDayCompletion checks whether every non-magic task of the date is
// complete. Magic is a bonus, never a gating task. On the first detection of
// a completed day the streak is credited first, then the level advances by
// exactly one; the date and everything before it count as credited from then
// on, so repeated calls and re-completed earlier days are no-ops.
func (e *Engine) CheckDayCompletion(ctx context.Context, userID int64, date string) (*DayCompletionResult, error) {
	unlock := e.lockDay(userID, date)
	defer unlock()

	user, err := e.users.GetByTelegramID(ctx, userID)
	if err != nil {
		return nil, err
	}

	tasks, err := e.tasks.GetForDay(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to read day batch: %w", err)
	}

	total, completed := 0, 0
	for _, t := range tasks {
		if t.TaskType == models.TaskTypeMagic {
			continue
		}
		total++
		if t.Completed {
			completed++
		}
	}
	if total == 0 || completed < total {
		return &DayCompletionResult{Completed: false, NewLevel: user.Level}, nil
	}

	streak, err := e.streaks.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read streak: %w", err)
	}
	if streak.LastCompletedDate != nil {
		last, err := time.Parse(DateLayout, *streak.LastCompletedDate)
		if err != nil {
			return nil, fmt.Errorf("failed to parse last completed date %q: %w", *streak.LastCompletedDate, err)
		}
		day, err := time.Parse(DateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("failed to parse completion date %q: %w", date, err)
		}
		// Этот и все более ранние дни уже засчитаны: повторное закрытие
		// старого дня (например, со старой клавиатуры) ничего не меняет
		if !day.After(last) {
			return &DayCompletionResult{Completed: true, NewLevel: user.Level}, nil
		}
	}

	// Сначала зачет серии за завершенный день, затем переход на новый уровень
	if err := applyStreakCredit(streak, date); err != nil {
		return nil, err
	}
	if err := e.streaks.Upsert(ctx, streak); err != nil {
		return nil, fmt.Errorf("failed to save streak: %w", err)
	}
	if err := e.users.UpdateStreakMirror(ctx, userID, streak.CurrentStreak, streak.LongestStreak); err != nil {
		return nil, fmt.Errorf("failed to update user streak fields: %w", err)
	}

	newLevel := user.Level + 1
	if err := e.users.UpdateLevel(ctx, userID, newLevel); err != nil {
		return nil, fmt.Errorf("failed to advance level: %w", err)
	}

	return &DayCompletionResult{Completed: true, StreakCredited: true, NewLevel: newLevel}, nil
}

// AddCustomTask appends a user-authored task to the day batch and refreshes
// the day's statistics. libraryID links the task back to its template.
func (e *Engine) AddCustomTask(ctx context.Context, userID int64, date, text string, taskType models.TaskType, libraryID *string) (*models.Task, error) {
	if !taskType.Valid() {
		return nil, fmt.Errorf("%w: unknown task type %q", taskpool.ErrInvalidConfig, taskType)
	}

	unlock := e.lockDay(userID, date)
	defer unlock()

	tasks, err := e.tasks.GetForDay(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to read day batch: %w", err)
	}

	task := &models.Task{
		UserID:       userID,
		TaskDate:     date,
		TaskText:     text,
		TaskType:     taskType,
		Position:     len(tasks) + 1,
		IsCustom:     true,
		CustomTaskID: libraryID,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	if err := e.tasks.Insert(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to insert custom task: %w", err)
	}
	if err := e.refreshStats(ctx, userID, date); err != nil {
		return nil, err
	}
	return task, nil
}

// CompleteOnboarding moves the user from Onboarding to Active(1)
func (e *Engine) CompleteOnboarding(ctx context.Context, userID int64) error {
	if err := e.users.SetOnboardingCompleted(ctx, userID, true); err != nil {
		return fmt.Errorf("failed to complete onboarding: %w", err)
	}
	return nil
}

// GetDailyStats returns the counter row for the date
func (e *Engine) GetDailyStats(ctx context.Context, userID int64, date string) (*models.DailyStats, error) {
	return e.stats.GetByUserAndDate(ctx, userID, date)
}

// GetStreak returns the user's streak record
func (e *Engine) GetStreak(ctx context.Context, userID int64) (*models.Streak, error) {
	return e.streaks.GetByUserID(ctx, userID)
}

// ResetProgress wipes the user's program state: level back to 1, onboarding
// flag cleared, every task and stats row deleted, streak record zeroed.
// Destructive and irreversible; the transport layer confirms intent first.
func (e *Engine) ResetProgress(ctx context.Context, userID int64) error {
	if err := e.users.ResetProgress(ctx, userID); err != nil {
		return fmt.Errorf("failed to reset user: %w", err)
	}
	if err := e.tasks.DeleteAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete tasks: %w", err)
	}
	if err := e.stats.DeleteAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete daily stats: %w", err)
	}
	if err := e.streaks.Reset(ctx, userID); err != nil {
		return fmt.Errorf("failed to reset streak: %w", err)
	}
	return nil
}
