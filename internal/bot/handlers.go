package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/example/flowbot/internal/excel"
	"github.com/example/flowbot/internal/progression"
	"github.com/example/flowbot/internal/taskpool"
	"github.com/example/flowbot/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Constants for pending text actions
const (
	actionAwaitingCustomTask = "awaiting_custom_task"
)

// getOrCreateUser loads the user or creates one on first contact
func (b *Bot) getOrCreateUser(ctx context.Context, tgUser *tgbotapi.User) (*models.User, error) {
	user, err := b.users.GetByTelegramID(ctx, tgUser.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, progression.ErrNotFound) {
		return nil, err
	}

	// Первый контакт — создаем пользователя на первом дне программы
	newUser := &models.User{
		TelegramID:          tgUser.ID,
		Username:            tgUser.UserName,
		FirstName:           tgUser.FirstName,
		LastName:            tgUser.LastName,
		Level:               1,
		NotificationEnabled: true,
		MorningHour:         b.config.DefaultMorningHour,
		EveningHour:         b.config.DefaultEveningHour,
		IsAdmin:             b.isAdmin(tgUser.ID),
	}
	if err := b.users.Create(ctx, newUser); err != nil {
		return nil, err
	}
	return b.users.GetByTelegramID(ctx, tgUser.ID)
}

func (b *Bot) handleStart(ctx context.Context, message *tgbotapi.Message) error {
	userID := message.From.ID

	// Подавляем продублированный /start (повторная доставка, быстрый двойной тап)
	fresh, err := b.startCache.SetNX(ctx, fmt.Sprintf("start:%d", userID), b.config.StartSuppressTTL)
	if err != nil {
		log.Printf("Warning: start suppression cache unavailable: %v", err)
	} else if !fresh {
		return nil
	}

	user, err := b.getOrCreateUser(ctx, message.From)
	if err != nil {
		return err
	}

	if user.OnboardingCompleted {
		msg := tgbotapi.NewMessage(message.Chat.ID,
			fmt.Sprintf("С возвращением! Вы на дне %d программы. 🔥 Серия: %d", user.Level, user.CurrentStreak))
		msg.ReplyMarkup = createKeyboard(b.MainMenuButtons())
		return b.sendMessage(msg)
	}

	text := "👋 Добро пожаловать в FlowBot!\n\n" +
		"Это 15-дневная программа продуктивности. Каждое утро вы будете получать список задач:\n\n" +
		"🟢 С 1-го дня — легкие задачи для разгона\n" +
		"🟡 С 6-го дня — добавляются средние\n" +
		"🔴 С 11-го дня — сложные задачи и планирование\n" +
		"✨ С 16-го дня — бонусная магическая задача\n\n" +
		"Закрывайте все задачи дня, чтобы расти в уровне и держать серию!"

	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyMarkup = createKeyboard([][]MenuButton{
		{{Text: "🚀 Начать программу", CallbackData: "complete_onboarding"}},
	})
	return b.sendMessage(msg)
}

func (b *Bot) handleHelp(message *tgbotapi.Message) error {
	text := "📖 Справка по использованию бота\n\n" +
		"🔸 Основные команды:\n" +
		"/start - Запустить бота\n" +
		"/today - Задачи на сегодня\n" +
		"/add - Добавить свою сложную задачу\n" +
		"/stats - Статистика дня\n" +
		"/streak - Ваша серия\n\n" +
		"⚙️ Настройки:\n" +
		"/settings - Время утренних задач и вечерних итогов\n" +
		"/reset - Начать программу заново\n\n" +
		"💡 Советы:\n" +
		"• Отмечайте задачи кнопками под списком\n" +
		"• Магическая задача — бонус, она не мешает закрыть день\n" +
		"• День закрыт = уровень +1 и зачет серии"

	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyMarkup = createKeyboard([][]MenuButton{
		{{Text: "⬅️ Вернуться в меню", CallbackData: "main_menu"}},
	})
	return b.sendMessage(msg)
}

func (b *Bot) showMainMenu(chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, "Главное меню:")
	msg.ReplyMarkup = createKeyboard(b.MainMenuButtons())
	return b.sendMessage(msg)
}

func (b *Bot) handleToday(ctx context.Context, message *tgbotapi.Message) error {
	user, err := b.getOrCreateUser(ctx, message.From)
	if err != nil {
		return err
	}

	if !user.OnboardingCompleted {
		msg := tgbotapi.NewMessage(message.Chat.ID, "Сначала начните программу:")
		msg.ReplyMarkup = createKeyboard([][]MenuButton{
			{{Text: "🚀 Начать программу", CallbackData: "complete_onboarding"}},
		})
		return b.sendMessage(msg)
	}

	date := today()
	tasks, err := b.engine.GetDay(ctx, user.TelegramID, date)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		tasks, err = b.engine.GenerateDay(ctx, user.TelegramID, user.Level, date)
		if err != nil {
			return err
		}
	}

	header := fmt.Sprintf("📋 *Задачи на сегодня (день %d)*\n\n", user.Level)
	msg := tgbotapi.NewMessage(message.Chat.ID, header+renderDayList(tasks))
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = dayKeyboard(tasks)
	return b.sendMessage(msg)
}

func (b *Bot) handleStats(ctx context.Context, message *tgbotapi.Message) error {
	stats, err := b.engine.GetDailyStats(ctx, message.From.ID, today())
	if errors.Is(err, progression.ErrNotFound) {
		msg := tgbotapi.NewMessage(message.Chat.ID, "Задачи на сегодня еще не созданы. Используйте /today, чтобы начать день!")
		msg.ReplyMarkup = createKeyboard(b.MainMenuButtons())
		return b.sendMessage(msg)
	}
	if err != nil {
		return err
	}

	text := "📊 *Статистика за сегодня*\n\n" +
		fmt.Sprintf("Выполнено: %d из %d\n", stats.CompletedTotal, stats.TotalTasks) +
		fmt.Sprintf("🟢 Легких: %d\n", stats.CompletedEasy) +
		fmt.Sprintf("🟡 Средних: %d\n", stats.CompletedStandard) +
		fmt.Sprintf("🔴 Сложных: %d\n", stats.CompletedHard) +
		fmt.Sprintf("Поток дня: %d%%\n", stats.FlowScore) +
		fmt.Sprintf("Индекс продуктивности: %d", stats.ProductivityIndex)
	if stats.MagicCompleted {
		text += "\n✨ Магическая задача выполнена!"
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = createKeyboard([][]MenuButton{
		{{Text: "📋 К задачам", CallbackData: "show_today"}},
		{{Text: "« Назад в меню", CallbackData: "main_menu"}},
	})
	return b.sendMessage(msg)
}

func (b *Bot) handleStreak(ctx context.Context, message *tgbotapi.Message) error {
	streak, err := b.engine.GetStreak(ctx, message.From.ID)
	if err != nil {
		return err
	}

	text := "🔥 *Ваша серия*\n\n" +
		fmt.Sprintf("Текущая серия: %d дн.\n", streak.CurrentStreak) +
		fmt.Sprintf("Рекорд: %d дн.\n", streak.LongestStreak) +
		fmt.Sprintf("Всего закрытых дней: %d", streak.TotalDays)
	if streak.LastCompletedDate != nil {
		text += fmt.Sprintf("\nПоследний закрытый день: %s", *streak.LastCompletedDate)
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = createKeyboard(b.MainMenuButtons())
	return b.sendMessage(msg)
}

func (b *Bot) handleAddTask(message *tgbotapi.Message) error {
	b.setPendingAction(message.From.ID, actionAwaitingCustomTask)

	text := "📝 *Своя сложная задача*\n\n" +
		"Отправьте текст задачи одним сообщением — она попадет в сегодняшний список как 🔴 сложная.\n\n" +
		"Чтобы отменить, нажмите кнопку ниже."

	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = createKeyboard([][]MenuButton{
		{{Text: "❌ Отмена", CallbackData: "cancel_action"}},
	})
	return b.sendMessage(msg)
}

// handleText processes plain-text messages according to the pending action
func (b *Bot) handleText(ctx context.Context, message *tgbotapi.Message) error {
	userID := message.From.ID

	switch b.pendingAction(userID) {
	case actionAwaitingCustomTask:
		text := strings.TrimSpace(message.Text)
		if text == "" || len([]rune(text)) > 200 {
			return b.sendText(message.Chat.ID, "Пожалуйста, отправьте текст задачи длиной до 200 символов.")
		}
		b.setPendingAction(userID, "")

		// Сохраняем шаблон в библиотеку и добавляем задачу в сегодняшний список
		template := &models.LibraryTask{
			UserID:   userID,
			TaskText: text,
			TaskType: models.TaskTypeHard,
			Category: string(taskpool.DetectCategory(text)),
		}
		if err := b.library.Create(ctx, template); err != nil {
			return err
		}
		if _, err := b.engine.AddCustomTask(ctx, userID, today(), text, models.TaskTypeHard, &template.ID); err != nil {
			return err
		}

		msg := tgbotapi.NewMessage(message.Chat.ID, "✅ Задача добавлена в сегодняшний список!")
		msg.ReplyMarkup = createKeyboard([][]MenuButton{
			{{Text: "📋 К задачам", CallbackData: "show_today"}},
		})
		return b.sendMessage(msg)
	default:
		msg := tgbotapi.NewMessage(message.Chat.ID, "Я не понимаю. Используйте /help для списка команд.")
		msg.ReplyMarkup = createKeyboard(b.MainMenuButtons())
		return b.sendMessage(msg)
	}
}

func (b *Bot) handleSettings(message *tgbotapi.Message) error {
	msg := tgbotapi.NewMessage(message.Chat.ID, "⚙️ Настройки")
	msg.ReplyMarkup = createKeyboard([][]MenuButton{
		{{Text: "🌅 Час утренних задач", CallbackData: "set_morning"}},
		{{Text: "🌙 Час вечерних итогов", CallbackData: "set_evening"}},
		{{Text: "🔔 Уведомления вкл/выкл", CallbackData: "toggle_notify"}},
		{{Text: "« Назад в меню", CallbackData: "main_menu"}},
	})
	return b.sendMessage(msg)
}

func (b *Bot) handleReset(message *tgbotapi.Message) error {
	text := "⚠️ *Сброс прогресса*\n\n" +
		"Уровень вернется на день 1, все задачи, статистика и серия будут удалены. Это действие необратимо."

	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = createKeyboard([][]MenuButton{
		{{Text: "⚠️ Да, сбросить все", CallbackData: "confirm_reset"}},
		{{Text: "❌ Отмена", CallbackData: "cancel_action"}},
	})
	return b.sendMessage(msg)
}

func (b *Bot) handleImport(message *tgbotapi.Message) error {
	b.setAwaitingFileUpload(message.From.ID, true)
	return b.sendText(message.Chat.ID,
		"Пришлите файл .xlsx или .csv с шаблонами задач.\n"+
			"Колонки: текст задачи; уровень (easy/standard/hard/magic); категория (опционально).")
}

// handleLibraryUpload downloads an admin-sent document and imports it into
// the shared task library
func (b *Bot) handleLibraryUpload(ctx context.Context, message *tgbotapi.Message) error {
	b.setAwaitingFileUpload(message.From.ID, false)

	doc := message.Document
	url, err := b.api.GetFileDirectURL(doc.FileID)
	if err != nil {
		return fmt.Errorf("failed to resolve file URL: %v", err)
	}

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to download file: %v", err)
	}
	defer resp.Body.Close()

	tmp, err := os.CreateTemp("", "library-*"+filepath.Ext(doc.FileName))
	if err != nil {
		return fmt.Errorf("failed to create temp file: %v", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to save file: %v", err)
	}
	tmp.Close()

	config := excel.DefaultImportConfig()
	config.FilePath = tmp.Name()

	result, err := excel.ImportLibraryTasks(ctx, config)
	if err != nil {
		return err
	}

	text := fmt.Sprintf("Импорт завершен: добавлено %d, пропущено %d, ошибок %d (всего строк %d).",
		result.Created, result.Skipped, len(result.Errors), result.TotalProcessed)
	return b.sendText(message.Chat.ID, text)
}

func (b *Bot) handleAdminStats(ctx context.Context, message *tgbotapi.Message) error {
	users, err := b.users.GetAll(ctx)
	if err != nil {
		return err
	}
	templates, err := b.library.CountAll(ctx)
	if err != nil {
		return err
	}

	onboarded := 0
	for _, u := range users {
		if u.OnboardingCompleted {
			onboarded++
		}
	}

	text := "Системная статистика\n\n" +
		fmt.Sprintf("Всего пользователей: %d\n", len(users)) +
		fmt.Sprintf("Прошли онбординг: %d\n", onboarded) +
		fmt.Sprintf("Шаблонов в библиотеке: %d", templates)
	return b.sendText(message.Chat.ID, text)
}

// handleCallbackQuery handles callback queries from buttons
func (b *Bot) handleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) error {
	if callback == nil || callback.Message == nil || callback.From == nil {
		return fmt.Errorf("invalid callback: required fields are missing")
	}

	userID := callback.From.ID
	chatID := callback.Message.Chat.ID

	// Сразу отвечаем на callback, чтобы убрать "часики" на кнопке
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		log.Printf("Error answering callback: %v", err)
	}

	data := callback.Data
	switch {
	case data == "main_menu":
		return b.showMainMenu(chatID)
	case data == "cancel_action":
		b.setPendingAction(userID, "")
		b.setAwaitingFileUpload(userID, false)
		return b.showMainMenu(chatID)
	case data == "complete_onboarding":
		return b.handleCompleteOnboarding(ctx, userID, chatID)
	case data == "show_today":
		return b.handleToday(ctx, &tgbotapi.Message{
			From: &tgbotapi.User{ID: userID},
			Chat: &tgbotapi.Chat{ID: chatID},
		})
	case data == "show_stats":
		return b.handleStats(ctx, &tgbotapi.Message{
			From: &tgbotapi.User{ID: userID},
			Chat: &tgbotapi.Chat{ID: chatID},
		})
	case data == "show_streak":
		return b.handleStreak(ctx, &tgbotapi.Message{
			From: &tgbotapi.User{ID: userID},
			Chat: &tgbotapi.Chat{ID: chatID},
		})
	case data == "settings":
		return b.handleSettings(&tgbotapi.Message{
			From: &tgbotapi.User{ID: userID},
			Chat: &tgbotapi.Chat{ID: chatID},
		})
	case data == "confirm_reset":
		return b.handleConfirmReset(ctx, userID, chatID)
	case data == "set_morning":
		return b.sendHourPicker(chatID, "Выберите час утренней доставки задач:", "morning", 5, 12)
	case data == "set_evening":
		return b.sendHourPicker(chatID, "Выберите час вечерних итогов:", "evening", 17, 23)
	case data == "toggle_notify":
		return b.handleToggleNotify(ctx, userID, chatID)
	case strings.HasPrefix(data, "morning_"):
		return b.handleHourSelection(ctx, userID, chatID, data, "morning_", b.users.UpdateMorningHour)
	case strings.HasPrefix(data, "evening_"):
		return b.handleHourSelection(ctx, userID, chatID, data, "evening_", b.users.UpdateEveningHour)
	case strings.HasPrefix(data, "done_"):
		return b.handleToggleTask(ctx, callback, strings.TrimPrefix(data, "done_"), true)
	case strings.HasPrefix(data, "undo_"):
		return b.handleToggleTask(ctx, callback, strings.TrimPrefix(data, "undo_"), false)
	default:
		log.Printf("Unknown callback data: %q", data)
		return nil
	}
}

// handleCompleteOnboarding moves the user to Active(1) and delivers day 1
func (b *Bot) handleCompleteOnboarding(ctx context.Context, userID, chatID int64) error {
	user, err := b.users.GetByTelegramID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.OnboardingCompleted {
		if err := b.engine.CompleteOnboarding(ctx, userID); err != nil {
			return err
		}
	}

	date := today()
	exists, err := b.engine.HasBatch(ctx, userID, date)
	if err != nil {
		return err
	}
	if !exists {
		if _, err := b.engine.GenerateDay(ctx, userID, user.Level, date); err != nil {
			return err
		}
	}
	return b.SendDailyTasks(userID, date)
}

// handleToggleTask flips one task and re-renders the day message in place
func (b *Bot) handleToggleTask(ctx context.Context, callback *tgbotapi.CallbackQuery, idStr string, completed bool) error {
	taskID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid task id %q: %v", idStr, err)
	}

	var task *models.Task
	if completed {
		task, err = b.engine.RecordCompletion(ctx, taskID)
	} else {
		task, err = b.engine.RecordUncompletion(ctx, taskID)
	}
	if errors.Is(err, progression.ErrNotFound) {
		return b.sendText(callback.Message.Chat.ID, "Эта задача больше не существует. Используйте /today.")
	}
	if err != nil {
		return err
	}

	// Перерисовываем список в том же сообщении
	tasks, err := b.engine.GetDay(ctx, task.UserID, task.TaskDate)
	if err != nil {
		return err
	}
	user, err := b.users.GetByTelegramID(ctx, task.UserID)
	if err != nil {
		return err
	}
	header := fmt.Sprintf("📋 *Задачи на сегодня (день %d)*\n\n", user.Level)
	edit := tgbotapi.NewEditMessageTextAndMarkup(
		callback.Message.Chat.ID,
		callback.Message.MessageID,
		header+renderDayList(tasks),
		dayKeyboard(tasks),
	)
	edit.ParseMode = "Markdown"
	if err := b.sendMessage(edit); err != nil {
		log.Printf("Error editing day message: %v", err)
	}

	if !completed {
		return nil
	}

	result, err := b.engine.CheckDayCompletion(ctx, task.UserID, task.TaskDate)
	if err != nil {
		return err
	}
	if result.Completed && result.StreakCredited {
		streak, err := b.engine.GetStreak(ctx, task.UserID)
		if err != nil {
			return err
		}
		text := "🎉 *День закрыт!*\n\n" +
			fmt.Sprintf("Вы переходите на день %d.\n", result.NewLevel) +
			fmt.Sprintf("🔥 Серия: %d дн. (рекорд %d)", streak.CurrentStreak, streak.LongestStreak)
		msg := tgbotapi.NewMessage(callback.Message.Chat.ID, text)
		msg.ParseMode = "Markdown"
		return b.sendMessage(msg)
	}
	return nil
}

func (b *Bot) handleToggleNotify(ctx context.Context, userID, chatID int64) error {
	user, err := b.users.GetByTelegramID(ctx, userID)
	if err != nil {
		return err
	}
	enabled := !user.NotificationEnabled
	if err := b.users.SetNotificationsEnabled(ctx, userID, enabled); err != nil {
		return err
	}
	if enabled {
		return b.sendText(chatID, "🔔 Уведомления включены")
	}
	return b.sendText(chatID, "🔕 Уведомления выключены")
}

// sendHourPicker shows a row-per-hour keyboard for delivery time selection
func (b *Bot) sendHourPicker(chatID int64, title, prefix string, from, to int) error {
	var rows [][]MenuButton
	var row []MenuButton
	for h := from; h <= to; h++ {
		row = append(row, MenuButton{
			Text:         fmt.Sprintf("%02d:00", h),
			CallbackData: fmt.Sprintf("%s_%d", prefix, h),
		})
		if len(row) == 4 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, []MenuButton{{Text: "« Назад", CallbackData: "settings"}})

	msg := tgbotapi.NewMessage(chatID, title)
	msg.ReplyMarkup = createKeyboard(rows)
	return b.sendMessage(msg)
}

func (b *Bot) handleHourSelection(ctx context.Context, userID, chatID int64, data, prefix string, update func(context.Context, int64, int) error) error {
	hour, err := strconv.Atoi(strings.TrimPrefix(data, prefix))
	if err != nil || hour < 0 || hour > 23 {
		return fmt.Errorf("invalid hour in callback %q", data)
	}
	if err := update(ctx, userID, hour); err != nil {
		return err
	}
	return b.sendText(chatID, fmt.Sprintf("✅ Время установлено: %02d:00", hour))
}

func (b *Bot) handleConfirmReset(ctx context.Context, userID, chatID int64) error {
	if err := b.engine.ResetProgress(ctx, userID); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(chatID, "Прогресс сброшен. Вы снова на дне 1 — начнем заново? 💪")
	msg.ReplyMarkup = createKeyboard([][]MenuButton{
		{{Text: "🚀 Начать программу", CallbackData: "complete_onboarding"}},
	})
	return b.sendMessage(msg)
}
