package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"luxejournal/internal/model"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(post *model.Post) error {
	if err := r.db.Create(post).Error; err != nil {
		return fmt.Errorf("create post failed: %w", err)
	}
	return nil
}

// GetView returns the post joined with its author's username, or nil
// when no such post exists.
func (r *PostRepository) GetView(id uint) (*model.PostView, error) {
	var view model.PostView
	err := r.db.Table("posts").
		Select("posts.id, posts.user_id, posts.title, posts.body, posts.created_at, users.username").
		Joins("JOIN users ON users.id = posts.user_id").
		Where("posts.id = ?", id).
		Take(&view).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query post failed: %w", err)
	}
	return &view, nil
}

// ListViews returns every post with its author, newest first.
func (r *PostRepository) ListViews() ([]model.PostView, error) {
	var views []model.PostView
	err := r.db.Table("posts").
		Select("posts.id, posts.user_id, posts.title, posts.body, posts.created_at, users.username").
		Joins("JOIN users ON users.id = posts.user_id").
		Order("posts.created_at DESC").
		Find(&views).Error
	if err != nil {
		return nil, fmt.Errorf("list posts failed: %w", err)
	}
	return views, nil
}

// Update rewrites title and body only; created_at stays untouched.
func (r *PostRepository) Update(id uint, title, body string) error {
	err := r.db.Model(&model.Post{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"title": title, "body": body}).Error
	if err != nil {
		return fmt.Errorf("update post failed: %w", err)
	}
	return nil
}

func (r *PostRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Post{}, id).Error; err != nil {
		return fmt.Errorf("delete post failed: %w", err)
	}
	return nil
}
