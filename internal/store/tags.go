package store

import (
	"context"
	"fmt"

	"foodgram/internal/models"
)

func (s *Store) ListTags(ctx context.Context) ([]models.Tag, error) {
	rows, err := s.q.Query(ctx, "SELECT id, name, color, slug FROM tags ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	tags := []models.Tag{}
	for rows.Next() {
		var tag models.Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Color, &tag.Slug); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func (s *Store) GetTag(ctx context.Context, id int) (*models.Tag, error) {
	var tag models.Tag
	err := s.q.QueryRow(ctx, "SELECT id, name, color, slug FROM tags WHERE id = $1", id).Scan(
		&tag.ID, &tag.Name, &tag.Color, &tag.Slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get tag: %w", mapError(err))
	}
	return &tag, nil
}

func (s *Store) CreateTag(ctx context.Context, tag *models.Tag) error {
	err := s.q.QueryRow(ctx,
		"INSERT INTO tags (name, color, slug) VALUES ($1, $2, $3) RETURNING id",
		tag.Name, tag.Color, tag.Slug).Scan(&tag.ID)
	if err != nil {
		return fmt.Errorf("failed to create tag: %w", mapError(err))
	}
	return nil
}
