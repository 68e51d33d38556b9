package excel

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/signtutor/internal/database"
	"github.com/example/signtutor/pkg/models"
)

// ImportConfig defines how the sign catalog spreadsheet is laid out.
type ImportConfig struct {
	FilePath  string // Path to the Excel file
	SheetName string // Name of the sheet to import
	StartRow  int    // The row to start importing from (1-based index)
}

// Column layout of one catalog row:
// A: category name, B: sign id, C: sign name, D: description,
// E: difficulty (1-5, optional), F: image path (optional).
const (
	colCategory = 0
	colID       = 1
	colName     = 2
	colDesc     = 3
	colDiff     = 4
	colImage    = 5
)

// DefaultImportConfig returns the default import configuration.
func DefaultImportConfig(path string) ImportConfig {
	return ImportConfig{
		FilePath:  path,
		SheetName: "Sheet1",
		StartRow:  2, // skip the header row
	}
}

// ImportResult holds the result of an import operation.
type ImportResult struct {
	TotalProcessed    int
	CategoriesCreated int
	SignsImported     int
	Skipped           int
	Errors            []string
}

// ImportSigns loads the sign catalog from an Excel file into the store.
// Rows missing an id or name are skipped and reported, not fatal.
func ImportSigns(ctx context.Context, store *database.Store, config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %v", err)
	}

	result := &ImportResult{Errors: make([]string, 0)}
	seenCategories := make(map[string]bool)

	for i, row := range rows {
		if i < config.StartRow-1 {
			continue
		}
		result.TotalProcessed++

		sign, category, err := parseRow(row)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}

		if !seenCategories[category.ID] {
			if err := store.UpsertCategory(ctx, category); err != nil {
				return result, fmt.Errorf("row %d: %v", i+1, err)
			}
			seenCategories[category.ID] = true
			result.CategoriesCreated++
		}

		if err := store.UpsertSign(ctx, sign); err != nil {
			return result, fmt.Errorf("row %d: %v", i+1, err)
		}
		result.SignsImported++
	}

	return result, nil
}

// parseRow converts one spreadsheet row into a sign and its category.
func parseRow(row []string) (models.Sign, models.Category, error) {
	get := func(idx int) string {
		if idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	categoryName := get(colCategory)
	id := get(colID)
	name := get(colName)
	if categoryName == "" || id == "" || name == "" {
		return models.Sign{}, models.Category{}, fmt.Errorf("missing category, id or name")
	}

	category := models.Category{
		ID:   slugify(categoryName),
		Name: categoryName,
	}

	difficulty := 0
	if raw := get(colDiff); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil || d < 1 || d > 5 {
			return models.Sign{}, models.Category{}, fmt.Errorf("invalid difficulty %q", raw)
		}
		difficulty = d
	}

	sign := models.Sign{
		ID:          id,
		CategoryID:  category.ID,
		Name:        name,
		Description: get(colDesc),
		ImagePath:   get(colImage),
		Difficulty:  difficulty,
	}
	return sign, category, nil
}

// slugify turns a category display name into a stable id.
func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.ReplaceAll(slug, " ", "-")
	return slug
}
