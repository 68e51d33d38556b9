package database

import (
	"context"
	"fmt"
	"time"

	"github.com/example/signtutor/pkg/models"
)

// UpsertCategory creates or renames a sign category.
func (s *Store) UpsertCategory(ctx context.Context, category models.Category) error {
	query := `
		INSERT INTO categories (id, name) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
	`
	if _, err := s.db.ExecContext(ctx, query, category.ID, category.Name); err != nil {
		return fmt.Errorf("failed to save category: %v", err)
	}
	return nil
}

// UpsertSign creates or updates one catalog sign.
func (s *Store) UpsertSign(ctx context.Context, sign models.Sign) error {
	now := time.Now()
	query := `
		INSERT INTO signs (id, category_id, name, description, image_path, difficulty, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		ON CONFLICT (id) DO UPDATE SET
			category_id = EXCLUDED.category_id,
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			image_path = EXCLUDED.image_path,
			difficulty = EXCLUDED.difficulty,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		sign.ID, sign.CategoryID, sign.Name, sign.Description, sign.ImagePath, sign.Difficulty, now)
	if err != nil {
		return fmt.Errorf("failed to save sign: %v", err)
	}
	return nil
}

// AllSigns returns the full catalog in insertion order.
func (s *Store) AllSigns(ctx context.Context) ([]models.Sign, error) {
	query := "SELECT * FROM signs ORDER BY rowid"
	if s.dbType == "postgres" {
		// rowid is a sqlite-ism
		query = "SELECT * FROM signs ORDER BY created_at, id"
	}
	var signs []models.Sign
	if err := s.db.SelectContext(ctx, &signs, query); err != nil {
		return nil, fmt.Errorf("failed to list signs: %v", err)
	}
	return signs, nil
}

// AllCategories returns every sign category.
func (s *Store) AllCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.SelectContext(ctx, &categories, "SELECT * FROM categories ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %v", err)
	}
	return categories, nil
}
