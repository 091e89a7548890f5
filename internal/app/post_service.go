package app

import (
	"context"
	"errors"
	"log"
	"strings"

	"luxejournal/internal/model"
)

var (
	ErrTitleRequired = errors.New("title is required")
	ErrBodyRequired  = errors.New("body is required")
	ErrPostNotFound  = errors.New("post not found")
	ErrNotPostOwner  = errors.New("post belongs to another user")
)

// PostStore is the persistence surface PostService depends on.
type PostStore interface {
	Create(post *model.Post) error
	GetView(id uint) (*model.PostView, error)
	ListViews() ([]model.PostView, error)
	Update(id uint, title, body string) error
	Delete(id uint) error
}

// ActivityPublisher emits audit events for post mutations.
type ActivityPublisher interface {
	Publish(ctx context.Context, activity model.Activity) error
}

// ListCache caches the home-page post list.
type ListCache interface {
	GetHome(ctx context.Context) ([]model.PostView, bool, error)
	SetHome(ctx context.Context, posts []model.PostView) error
	Invalidate(ctx context.Context) error
}

type PostService struct {
	posts     PostStore
	publisher ActivityPublisher
	cache     ListCache
}

// NewPostService wires the service. publisher and cache may be nil, in
// which case mutations are not announced and every list hits the store.
func NewPostService(posts PostStore, publisher ActivityPublisher, cache ListCache) *PostService {
	return &PostService{
		posts:     posts,
		publisher: publisher,
		cache:     cache,
	}
}

func (s *PostService) Create(ctx context.Context, ownerID uint, title, body string) (*model.Post, error) {
	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if body == "" {
		return nil, ErrBodyRequired
	}

	post := &model.Post{
		UserID: ownerID,
		Title:  title,
		Body:   body,
	}
	if err := s.posts.Create(post); err != nil {
		return nil, err
	}

	s.afterMutation(ctx, model.Activity{
		UserID: ownerID,
		PostID: post.ID,
		Action: model.ActivityPostCreated,
		Title:  post.Title,
	})
	return post, nil
}

// Get is the public lookup; it never checks ownership.
func (s *PostService) Get(id uint) (*model.PostView, error) {
	view, err := s.posts.GetView(id)
	if err != nil {
		return nil, err
	}
	if view == nil {
		return nil, ErrPostNotFound
	}
	return view, nil
}

// GetOwned fetches a post and enforces that userID owns it. Edit forms
// and delete pre-checks go through here; the public detail page must not.
func (s *PostService) GetOwned(id, userID uint) (*model.PostView, error) {
	view, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := checkOwnership(view, userID); err != nil {
		return nil, err
	}
	return view, nil
}

func (s *PostService) List(ctx context.Context) ([]model.PostView, error) {
	if s.cache != nil {
		cached, hit, err := s.cache.GetHome(ctx)
		if err != nil {
			log.Printf("post list cache read failed: %v", err)
		} else if hit {
			return cached, nil
		}
	}

	views, err := s.posts.ListViews()
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetHome(ctx, views); err != nil {
			log.Printf("post list cache write failed: %v", err)
		}
	}
	return views, nil
}

func (s *PostService) Update(ctx context.Context, id, editorID uint, title, body string) error {
	view, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := checkOwnership(view, editorID); err != nil {
		return err
	}

	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	if title == "" {
		return ErrTitleRequired
	}
	if body == "" {
		return ErrBodyRequired
	}

	if err := s.posts.Update(id, title, body); err != nil {
		return err
	}

	s.afterMutation(ctx, model.Activity{
		UserID: editorID,
		PostID: id,
		Action: model.ActivityPostUpdated,
		Title:  title,
	})
	return nil
}

func (s *PostService) Delete(ctx context.Context, id, editorID uint) error {
	view, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := checkOwnership(view, editorID); err != nil {
		return err
	}

	if err := s.posts.Delete(id); err != nil {
		return err
	}

	s.afterMutation(ctx, model.Activity{
		UserID: editorID,
		PostID: id,
		Action: model.ActivityPostDeleted,
		Title:  view.Title,
	})
	return nil
}

func checkOwnership(view *model.PostView, userID uint) error {
	if view.UserID != userID {
		return ErrNotPostOwner
	}
	return nil
}

// afterMutation invalidates the list cache and publishes the audit
// event. Both are best effort; the mutation itself already succeeded.
func (s *PostService) afterMutation(ctx context.Context, activity model.Activity) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			log.Printf("post list cache invalidate failed: %v", err)
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, activity); err != nil {
			log.Printf("publish activity %s for post %d failed: %v", activity.Action, activity.PostID, err)
		}
	}
}
