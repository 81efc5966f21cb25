package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/neuronotes/internal/domain"
	"github.com/Skotchmaster/neuronotes/internal/models"
)

func toNote(m models.Note) domain.Note {
	return domain.Note{
		ID:        m.ID,
		Title:     m.Title,
		Content:   m.Content,
		Tags:      decodeTags(m.Tags),
		CreatedAt: m.CreatedAt,
	}
}

func (r *GormRepo) CreateNote(ctx context.Context, note domain.Note) (domain.Note, error) {
	tags, err := encodeTags(note.Tags)
	if err != nil {
		return domain.Note{}, fmt.Errorf("encode tags: %w", err)
	}
	row := models.Note{
		Title:     note.Title,
		Content:   note.Content,
		Tags:      tags,
		CreatedAt: note.CreatedAt,
	}
	if err := r.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return domain.Note{}, fmt.Errorf("create note: %w", err)
	}
	return toNote(row), nil
}

func (r *GormRepo) ListNotes(ctx context.Context) ([]domain.Note, error) {
	var rows []models.Note
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	notes := make([]domain.Note, 0, len(rows))
	for _, row := range rows {
		notes = append(notes, toNote(row))
	}
	return notes, nil
}

func (r *GormRepo) GetNote(ctx context.Context, id uint) (domain.Note, error) {
	var row models.Note
	if err := r.DB.WithContext(ctx).First(&row, id).Error; err != nil {
		return domain.Note{}, notFound(err)
	}
	return toNote(row), nil
}

// UpdateNote replaces title, content and tags. id and created_at are left as stored.
func (r *GormRepo) UpdateNote(ctx context.Context, id uint, title, content string, tags domain.Tags) (domain.Note, error) {
	encoded, err := encodeTags(tags)
	if err != nil {
		return domain.Note{}, fmt.Errorf("encode tags: %w", err)
	}
	return r.updateColumns(ctx, id, map[string]any{
		"title":   title,
		"content": content,
		"tags":    encoded,
	})
}

func (r *GormRepo) UpdateTags(ctx context.Context, id uint, tags domain.Tags) (domain.Note, error) {
	encoded, err := encodeTags(tags)
	if err != nil {
		return domain.Note{}, fmt.Errorf("encode tags: %w", err)
	}
	return r.updateColumns(ctx, id, map[string]any{"tags": encoded})
}

func (r *GormRepo) updateColumns(ctx context.Context, id uint, cols map[string]any) (domain.Note, error) {
	var row models.Note
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&row, id).Error; err != nil {
			return notFound(err)
		}
		if err := tx.Model(&row).Updates(cols).Error; err != nil {
			return fmt.Errorf("update note: %w", err)
		}
		return tx.First(&row, id).Error
	})
	if err != nil {
		return domain.Note{}, err
	}
	return toNote(row), nil
}

func (r *GormRepo) DeleteNote(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Note{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete note: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
