package progression

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/example/flowbot/pkg/models"
)

// In-memory store fakes mirroring the repository semantics

type fakeUserStore struct {
	mu    sync.Mutex
	users map[int64]*models.User
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[int64]*models.User)}
	for _, u := range users {
		c := *u
		s.users[u.TelegramID] = &c
	}
	return s
}

func (s *fakeUserStore) get(telegramID int64) (*models.User, error) {
	u, ok := s.users[telegramID]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (s *fakeUserStore) GetByTelegramID(_ context.Context, telegramID int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.get(telegramID)
	if err != nil {
		return nil, err
	}
	c := *u
	return &c, nil
}

func (s *fakeUserStore) UpdateLevel(_ context.Context, telegramID int64, level int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.get(telegramID)
	if err != nil {
		return err
	}
	u.Level = level
	return nil
}

func (s *fakeUserStore) UpdateStreakMirror(_ context.Context, telegramID int64, current, longest int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.get(telegramID)
	if err != nil {
		return err
	}
	u.CurrentStreak = current
	u.LongestStreak = longest
	return nil
}

func (s *fakeUserStore) SetOnboardingCompleted(_ context.Context, telegramID int64, completed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.get(telegramID)
	if err != nil {
		return err
	}
	u.OnboardingCompleted = completed
	return nil
}

func (s *fakeUserStore) ResetProgress(_ context.Context, telegramID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.get(telegramID)
	if err != nil {
		return err
	}
	u.Level = 1
	u.CurrentStreak = 0
	u.LongestStreak = 0
	u.OnboardingCompleted = false
	return nil
}

type fakeTaskStore struct {
	mu     sync.Mutex
	nextID int64
	tasks  map[int64]*models.Task
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{tasks: make(map[int64]*models.Task)}
}

func (s *fakeTaskStore) ReplaceBatch(_ context.Context, userID int64, date string, tasks []models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.tasks {
		if t.UserID == userID && t.TaskDate == date {
			delete(s.tasks, id)
		}
	}
	for _, t := range tasks {
		s.nextID++
		c := t
		c.ID = s.nextID
		s.tasks[c.ID] = &c
	}
	return nil
}

func (s *fakeTaskStore) Insert(_ context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	task.ID = s.nextID
	c := *task
	s.tasks[c.ID] = &c
	return nil
}

func (s *fakeTaskStore) GetByID(_ context.Context, id int64) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *t
	return &c, nil
}

func (s *fakeTaskStore) GetForDay(_ context.Context, userID int64, date string) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Task
	for _, t := range s.tasks {
		if t.UserID == userID && t.TaskDate == date {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (s *fakeTaskStore) SetCompleted(_ context.Context, id int64, completed bool, completedAt string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok || t.Completed == completed {
		return false, nil
	}
	t.Completed = completed
	if completed {
		at := completedAt
		t.CompletedAt = &at
	} else {
		t.CompletedAt = nil
	}
	return true, nil
}

func (s *fakeTaskStore) DeleteAllForUser(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.tasks {
		if t.UserID == userID {
			delete(s.tasks, id)
		}
	}
	return nil
}

type fakeStatsStore struct {
	mu    sync.Mutex
	stats map[string]*models.DailyStats
}

func newFakeStatsStore() *fakeStatsStore {
	return &fakeStatsStore{stats: make(map[string]*models.DailyStats)}
}

func statsKey(userID int64, date string) string {
	return fmt.Sprintf("%d|%s", userID, date)
}

func (s *fakeStatsStore) InitDay(_ context.Context, userID int64, date string, totalTasks int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats[statsKey(userID, date)] = &models.DailyStats{
		UserID:     userID,
		StatDate:   date,
		TotalTasks: totalTasks,
	}
	return nil
}

func (s *fakeStatsStore) GetByUserAndDate(_ context.Context, userID int64, date string) (*models.DailyStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.stats[statsKey(userID, date)]
	if !ok {
		return nil, ErrNotFound
	}
	c := *row
	return &c, nil
}

func (s *fakeStatsStore) UpdateCounters(_ context.Context, stats *models.DailyStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := statsKey(stats.UserID, stats.StatDate)
	if _, ok := s.stats[key]; !ok {
		return ErrNotFound
	}
	c := *stats
	s.stats[key] = &c
	return nil
}

func (s *fakeStatsStore) DeleteAllForUser(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, row := range s.stats {
		if row.UserID == userID {
			delete(s.stats, key)
		}
	}
	return nil
}

type fakeStreakStore struct {
	mu      sync.Mutex
	streaks map[int64]*models.Streak
}

func newFakeStreakStore() *fakeStreakStore {
	return &fakeStreakStore{streaks: make(map[int64]*models.Streak)}
}

func (s *fakeStreakStore) GetByUserID(_ context.Context, userID int64) (*models.Streak, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.streaks[userID]
	if !ok {
		// Как и репозиторий, создаем нулевую запись при первом обращении
		row = &models.Streak{UserID: userID}
		s.streaks[userID] = row
	}
	c := *row
	return &c, nil
}

func (s *fakeStreakStore) Upsert(_ context.Context, streak *models.Streak) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *streak
	s.streaks[c.UserID] = &c
	return nil
}

func (s *fakeStreakStore) Reset(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.streaks[userID] = &models.Streak{UserID: userID}
	return nil
}
