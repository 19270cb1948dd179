package scheduler

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/example/flowbot/internal/database"
	"github.com/example/flowbot/internal/progression"
	"github.com/go-co-op/gocron"
)

// Константы для настроек уведомлений по умолчанию
const (
	DefaultNotificationStartHour = 6  // Время начала уведомлений
	DefaultNotificationEndHour   = 23 // Время окончания уведомлений
)

// Notifier delivers scheduled messages to users
type Notifier interface {
	SendDailyTasks(userID int64, date string) error
	SendEveningSummary(userID int64, date string) error
}

// Scheduler fires once per hour: users whose morning hour matches get their
// day generated and delivered, users whose evening hour matches get a
// read-only summary of the day's statistics
type Scheduler struct {
	scheduler *gocron.Scheduler
	engine    *progression.Engine
	users     *database.UserRepository
	notifier  Notifier
}

// New creates a new scheduler instance
func New(engine *progression.Engine, users *database.UserRepository, notifier Notifier) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		engine:    engine,
		users:     users,
		notifier:  notifier,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() {
	s.scheduler.Every(1).Hour().Do(s.runHourly)

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// runHourly delivers morning batches and evening summaries for the current hour
func (s *Scheduler) runHourly() {
	currentHour := time.Now().Hour()

	startHour := envHour("NOTIFICATION_START_HOUR", DefaultNotificationStartHour)
	endHour := envHour("NOTIFICATION_END_HOUR", DefaultNotificationEndHour)

	// Проверяем, находится ли текущий час в диапазоне времени для отправки уведомлений
	if currentHour < startHour || currentHour > endHour {
		log.Printf("Current hour %d is outside notification hours (%d-%d), skipping deliveries",
			currentHour, startHour, endHour)
		return
	}

	s.runMorningDeliveries(currentHour)
	s.runEveningSummaries(currentHour)
}

// runMorningDeliveries generates and sends the day batch for every user whose
// morning hour matches
func (s *Scheduler) runMorningDeliveries(hour int) {
	ctx := context.Background()
	date := time.Now().Format(progression.DateLayout)

	users, err := s.users.GetUsersForMorningHour(ctx, hour)
	if err != nil {
		log.Printf("Error getting users for morning delivery: %v", err)
		return
	}

	for _, user := range users {
		// Повторный тик не должен перегенерировать уже созданный день
		exists, err := s.engine.HasBatch(ctx, user.TelegramID, date)
		if err != nil {
			log.Printf("Error checking batch for user %d: %v", user.TelegramID, err)
			continue
		}
		if !exists {
			if _, err := s.engine.GenerateDay(ctx, user.TelegramID, user.Level, date); err != nil {
				log.Printf("Error generating day for user %d: %v", user.TelegramID, err)
				continue
			}
		}

		if err := s.notifier.SendDailyTasks(user.TelegramID, date); err != nil {
			log.Printf("Error sending daily tasks to user %d: %v", user.TelegramID, err)
		}
	}
}

// runEveningSummaries sends a read-only summary to every user whose evening
// hour matches; nothing in the core state is mutated here
func (s *Scheduler) runEveningSummaries(hour int) {
	ctx := context.Background()
	date := time.Now().Format(progression.DateLayout)

	users, err := s.users.GetUsersForEveningHour(ctx, hour)
	if err != nil {
		log.Printf("Error getting users for evening summary: %v", err)
		return
	}

	for _, user := range users {
		if err := s.notifier.SendEveningSummary(user.TelegramID, date); err != nil {
			log.Printf("Error sending evening summary to user %d: %v", user.TelegramID, err)
		}
	}
}

// envHour reads an hour override from the environment, keeping the default
// for missing or out-of-range values
func envHour(name string, def int) int {
	if value := os.Getenv(name); value != "" {
		if h, err := strconv.Atoi(value); err == nil && h >= 0 && h <= 23 {
			return h
		}
	}
	return def
}
