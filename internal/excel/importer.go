package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/flowbot/internal/database"
	"github.com/example/flowbot/internal/taskpool"
	"github.com/example/flowbot/pkg/models"
	"github.com/xuri/excelize/v2"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath       string // Path to the Excel or CSV file
	TextColumn     string // Column with the task text
	TypeColumn     string // Column with the difficulty tier
	CategoryColumn string // Column with the category (optional, detected from text when empty)
	SheetName      string // Name of the sheet to import
	StartRow       int    // The row to start importing from (1-based index)
	UserID         int64  // Owner of the imported templates; 0 = shared library
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		TextColumn:     "A",
		TypeColumn:     "B",
		CategoryColumn: "C",
		SheetName:      "Sheet1",
		StartRow:       2, // By default, start from the second row (skip header)
		UserID:         database.SharedLibraryUserID,
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Created        int
	Skipped        int
	Errors         []string
}

// ImportLibraryTasks imports task templates from an Excel or CSV file into
// the task library
func ImportLibraryTasks(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))
	if ext == ".csv" {
		return importFromCSV(ctx, config)
	}
	return importFromExcel(ctx, config)
}

// importFromExcel imports templates from an Excel file
func importFromExcel(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %v", config.SheetName, err)
	}

	textIdx := columnIndex(config.TextColumn)
	typeIdx := columnIndex(config.TypeColumn)
	categoryIdx := columnIndex(config.CategoryColumn)

	result := &ImportResult{Errors: make([]string, 0)}
	repo := database.NewLibraryRepository()

	for i, row := range rows {
		if i+1 < config.StartRow {
			continue
		}
		text := cellAt(row, textIdx)
		taskType := cellAt(row, typeIdx)
		category := cellAt(row, categoryIdx)
		importRow(ctx, repo, config.UserID, i+1, text, taskType, category, result)
	}

	return result, nil
}

// importFromCSV imports templates from a CSV file with columns
// text;type;category
func importFromCSV(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	f, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	result := &ImportResult{Errors: make([]string, 0)}
	repo := database.NewLibraryRepository()

	rowNum := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %v", err)
		}
		rowNum++
		if rowNum < config.StartRow {
			continue
		}
		text := cellAt(record, 0)
		taskType := cellAt(record, 1)
		category := cellAt(record, 2)
		importRow(ctx, repo, config.UserID, rowNum, text, taskType, category, result)
	}

	return result, nil
}

// importRow validates and stores one template row
func importRow(ctx context.Context, repo *database.LibraryRepository, userID int64, rowNum int, text, taskType, category string, result *ImportResult) {
	result.TotalProcessed++

	text = strings.TrimSpace(text)
	if text == "" {
		result.Skipped++
		return
	}

	typ := models.TaskType(strings.ToLower(strings.TrimSpace(taskType)))
	if taskType == "" {
		typ = models.TaskTypeHard
	}
	if !typ.Valid() {
		result.Skipped++
		result.Errors = append(result.Errors, fmt.Sprintf("row %d: unknown task type %q", rowNum, taskType))
		return
	}

	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		category = string(taskpool.DetectCategory(text))
	}

	task := &models.LibraryTask{
		UserID:   userID,
		TaskText: text,
		TaskType: typ,
		Category: category,
	}
	if err := repo.Create(ctx, task); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
		return
	}
	result.Created++
}

// columnIndex converts an Excel column letter ("A") to a zero-based index
func columnIndex(column string) int {
	column = strings.ToUpper(strings.TrimSpace(column))
	if column == "" {
		return -1
	}
	idx := 0
	for _, r := range column {
		if r < 'A' || r > 'Z' {
			return -1
		}
		idx = idx*26 + int(r-'A') + 1
	}
	return idx - 1
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
