package bot

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/example/flowbot/internal/cache"
	"github.com/example/flowbot/internal/database"
	"github.com/example/flowbot/internal/progression"
	"github.com/example/flowbot/internal/scheduler"
	"github.com/example/flowbot/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// Bot represents the Telegram bot application
type Bot struct {
	api              *tgbotapi.BotAPI
	token            string
	engine           *progression.Engine
	users            *database.UserRepository
	library          *database.LibraryRepository
	startCache       cache.Cache
	scheduler        *scheduler.Scheduler
	schedulerEnabled bool
	adminUserIDs     map[int64]bool
	config           *BotConfig

	mu                 sync.Mutex
	pendingActions     map[int64]string
	awaitingFileUpload map[int64]bool
}

// New creates a new bot instance
func New(engine *progression.Engine, users *database.UserRepository, library *database.LibraryRepository, startCache cache.Cache) (*Bot, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable is not set")
	}

	if database.DB == nil {
		return nil, fmt.Errorf("database connection is not established")
	}

	schedulerEnabled := os.Getenv("ENABLE_SCHEDULER") != "false"

	b := &Bot{
		token:              token,
		engine:             engine,
		users:              users,
		library:            library,
		startCache:         startCache,
		schedulerEnabled:   schedulerEnabled,
		adminUserIDs:       make(map[int64]bool),
		config:             DefaultConfig(),
		pendingActions:     make(map[int64]string),
		awaitingFileUpload: make(map[int64]bool),
	}

	adminIDs := os.Getenv("ADMIN_USER_IDS")
	if adminIDs != "" {
		for _, idStr := range strings.Split(adminIDs, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(idStr), 10, 64)
			if err != nil {
				log.Printf("Warning: Invalid admin user ID: %s", idStr)
				continue
			}
			b.adminUserIDs[id] = true
		}
	}

	return b, nil
}

// Start initializes and starts the bot
func (b *Bot) Start(ctx context.Context) error {
	botAPI, err := tgbotapi.NewBotAPI(b.token)
	if err != nil {
		return fmt.Errorf("unable to create bot: %v", err)
	}

	b.api = botAPI
	log.Printf("Authorized on account %s", botAPI.Self.UserName)

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60

	updates := b.api.GetUpdatesChan(updateConfig)

	if b.schedulerEnabled {
		// Создаем планировщик с текущим ботом в качестве Notifier
		b.scheduler = scheduler.New(b.engine, b.users, b)
		b.scheduler.Start()
		log.Println("Delivery scheduler started")
	}

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go b.handleUpdate(ctx, update)
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		}
	}
}

// Stop gracefully stops the bot
func (b *Bot) Stop(ctx context.Context) error {
	if b.schedulerEnabled && b.scheduler != nil {
		b.scheduler.Stop()
	}
	log.Println("Bot stopped")
	return nil
}

// isAdmin checks if a user is an admin
func (b *Bot) isAdmin(userID int64) bool {
	return b.adminUserIDs[userID]
}

// setPendingAction remembers what the next plain-text message from the user means
func (b *Bot) setPendingAction(userID int64, action string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if action == "" {
		delete(b.pendingActions, userID)
		return
	}
	b.pendingActions[userID] = action
}

func (b *Bot) pendingAction(userID int64) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pendingActions[userID]
}

func (b *Bot) setAwaitingFileUpload(userID int64, awaiting bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !awaiting {
		delete(b.awaitingFileUpload, userID)
		return
	}
	b.awaitingFileUpload[userID] = true
}

func (b *Bot) isAwaitingFileUpload(userID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.awaitingFileUpload[userID]
}

// handleUpdate handles incoming updates from Telegram
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		// Telegram не присылает Message для клавиатур старше 48 часов
		if update.CallbackQuery.Message == nil || update.CallbackQuery.From == nil {
			log.Printf("Ignoring callback %q: required fields are missing", update.CallbackQuery.Data)
			return
		}
		if err := b.handleCallbackQuery(ctx, update.CallbackQuery); err != nil {
			log.Printf("Error handling callback %q: %v", update.CallbackQuery.Data, err)
			b.sendGenericError(update.CallbackQuery.Message.Chat.ID)
		}
		return
	}

	if update.Message == nil || update.Message.From == nil {
		return
	}

	if update.Message.IsCommand() {
		if err := b.handleCommand(ctx, update.Message); err != nil {
			log.Printf("Error handling command /%s: %v", update.Message.Command(), err)
			b.sendGenericError(update.Message.Chat.ID)
		}
		return
	}

	if update.Message.Document != nil && b.isAwaitingFileUpload(update.Message.From.ID) {
		if err := b.handleLibraryUpload(ctx, update.Message); err != nil {
			log.Printf("Error importing library file: %v", err)
			b.sendGenericError(update.Message.Chat.ID)
		}
		return
	}

	if err := b.handleText(ctx, update.Message); err != nil {
		log.Printf("Error handling text message: %v", err)
		b.sendGenericError(update.Message.Chat.ID)
	}
}

// handleCommand dispatches bot commands
func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) error {
	switch message.Command() {
	case "start":
		return b.handleStart(ctx, message)
	case "help":
		return b.handleHelp(message)
	case "today":
		return b.handleToday(ctx, message)
	case "stats":
		return b.handleStats(ctx, message)
	case "streak":
		return b.handleStreak(ctx, message)
	case "add":
		return b.handleAddTask(message)
	case "settings":
		return b.handleSettings(message)
	case "reset":
		return b.handleReset(message)
	case "import":
		if !b.isAdmin(message.From.ID) {
			return b.sendText(message.Chat.ID, "Эта команда доступна только администраторам.")
		}
		return b.handleImport(message)
	case "admin_stats":
		if !b.isAdmin(message.From.ID) {
			return b.sendText(message.Chat.ID, "Эта команда доступна только администраторам.")
		}
		return b.handleAdminStats(ctx, message)
	default:
		msg := tgbotapi.NewMessage(message.Chat.ID, "Неизвестная команда. Используйте /help для списка команд.")
		msg.ReplyMarkup = createKeyboard(b.MainMenuButtons())
		return b.sendMessage(msg)
	}
}

// MainMenuButtons returns the main menu layout
func (b *Bot) MainMenuButtons() [][]MenuButton {
	return [][]MenuButton{
		{{Text: "📋 Задачи на сегодня", CallbackData: "show_today"}},
		{{Text: "📊 Статистика", CallbackData: "show_stats"}, {Text: "🔥 Серия", CallbackData: "show_streak"}},
		{{Text: "⚙️ Настройки", CallbackData: "settings"}},
	}
}

// SendDailyTasks implements the scheduler.Notifier interface: it delivers the
// generated day batch to the user
func (b *Bot) SendDailyTasks(userID int64, date string) error {
	ctx := context.Background()

	user, err := b.users.GetByTelegramID(ctx, userID)
	if err != nil {
		return err
	}

	tasks, err := b.engine.GetDay(ctx, userID, date)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		return nil
	}

	header := fmt.Sprintf("🌅 *День %d твоей программы!*\n\nВот задачи на сегодня:\n\n", user.Level)
	msg := tgbotapi.NewMessage(userID, header+renderDayList(tasks))
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = dayKeyboard(tasks)
	return b.sendMessage(msg)
}

// SendEveningSummary implements the scheduler.Notifier interface: it sends a
// read-only summary of the day's statistics
func (b *Bot) SendEveningSummary(userID int64, date string) error {
	ctx := context.Background()

	stats, err := b.engine.GetDailyStats(ctx, userID, date)
	if err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(userID, renderSummary(stats))
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = createKeyboard([][]MenuButton{
		{{Text: "📋 К задачам", CallbackData: "show_today"}},
	})
	return b.sendMessage(msg)
}

// sendMessage sends a message and logs delivery failures
func (b *Bot) sendMessage(msg tgbotapi.Chattable) error {
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %v", err)
	}
	return nil
}

func (b *Bot) sendText(chatID int64, text string) error {
	return b.sendMessage(tgbotapi.NewMessage(chatID, text))
}

// sendGenericError reports a failure to the user without internal detail
func (b *Bot) sendGenericError(chatID int64) {
	if err := b.sendText(chatID, "😔 Что-то пошло не так. Попробуйте еще раз позже."); err != nil {
		log.Printf("Error sending error message: %v", err)
	}
}

// today returns the current program-local date
func today() string {
	return time.Now().Format(progression.DateLayout)
}

// renderDayList formats a batch as a numbered checklist
func renderDayList(tasks []models.Task) string {
	var sb strings.Builder
	for i, task := range tasks {
		mark := "⬜"
		if task.Completed {
			mark = "✅"
		}
		sb.WriteString(fmt.Sprintf("%s %d. %s %s\n", mark, i+1, tierEmoji(task.TaskType), task.TaskText))
	}
	sb.WriteString("\n🟢 легкие · 🟡 средние · 🔴 сложные · ✨ магическая")
	return sb.String()
}

// renderSummary formats the evening statistics message
func renderSummary(stats *models.DailyStats) string {
	var sb strings.Builder
	sb.WriteString("🌙 *Итоги дня*\n\n")
	sb.WriteString(fmt.Sprintf("Выполнено задач: %d из %d\n", stats.CompletedTotal, stats.TotalTasks))
	sb.WriteString(fmt.Sprintf("Поток дня: %d%%\n", stats.FlowScore))
	sb.WriteString(fmt.Sprintf("Индекс продуктивности: %d\n", stats.ProductivityIndex))
	if stats.MagicCompleted {
		sb.WriteString("✨ Магическая задача выполнена!\n")
	}
	if stats.CompletedTotal < stats.TotalTasks {
		sb.WriteString("\nЕще есть время закрыть несколько задач 💪")
	} else {
		sb.WriteString("\nОтличный день! Так держать 🎉")
	}
	return sb.String()
}

func tierEmoji(t models.TaskType) string {
	switch t {
	case models.TaskTypeEasy:
		return "🟢"
	case models.TaskTypeStandard:
		return "🟡"
	case models.TaskTypeHard:
		return "🔴"
	case models.TaskTypeMagic:
		return "✨"
	}
	return ""
}

// dayKeyboard builds the completion toggle grid: one numbered button per
// task, five per row
func dayKeyboard(tasks []models.Task) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for i, task := range tasks {
		label := strconv.Itoa(i + 1)
		data := fmt.Sprintf("done_%d", task.ID)
		if task.Completed {
			label = "✅" + label
			data = fmt.Sprintf("undo_%d", task.ID)
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, data))
		if len(row) == 5 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("« Меню", "main_menu"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
