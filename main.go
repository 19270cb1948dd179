package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/example/flowbot/internal/bot"
	"github.com/example/flowbot/internal/cache"
	"github.com/example/flowbot/internal/database"
	"github.com/example/flowbot/internal/progression"
	"github.com/example/flowbot/internal/taskpool"
)

func main() {
	// Загружаем .env, если он есть (в проде переменные приходят из окружения)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Создаем канал для сигналов
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Создаем контекст с отменой
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Подключаемся к базе данных
	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Кэш подавления дублей /start: Redis в проде, in-memory локально
	var startCache cache.Cache
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		startCache = cache.NewRedis(addr)
		log.Printf("Using Redis cache at %s", addr)
	} else {
		startCache = cache.NewMemory()
	}
	defer startCache.Close()

	users := database.NewUserRepository()
	tasks := database.NewTaskRepository()
	stats := database.NewStatsRepository()
	streaks := database.NewStreakRepository()
	library := database.NewLibraryRepository()

	engine := progression.NewEngine(taskpool.New(), users, tasks, stats, streaks)

	b, err := bot.New(engine, users, library, startCache)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	// Канал для ожидания завершения бота
	done := make(chan struct{})

	// Горутина для обработки сигналов
	go func() {
		sig := <-sigChan
		log.Printf("Received signal: %v\n", sig)
		cancel() // Отменяем контекст

		// Даем время на graceful shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := b.Stop(shutdownCtx); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}

		close(done) // Сигнализируем о завершении
	}()

	// Запускаем бота
	log.Println("Bot started. Press Ctrl+C to stop.")
	go func() {
		if err := b.Start(ctx); err != nil && err != context.Canceled {
			log.Printf("Bot error: %v", err)
		}
	}()

	// Ждем сигнала завершения
	<-done
	log.Println("Bot stopped successfully")
}
