package bootstrap

import (
	"gorm.io/gorm"

	"luxejournal/internal/model"
	"luxejournal/internal/pkg/passwordhash"
	"luxejournal/internal/repository"
)

// seed creates the demo author and her first posts on a fresh database.
// It runs once; any existing user disables it.
func seed(db *gorm.DB) error {
	users := repository.NewUserRepository(db)

	count, err := users.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := passwordhash.Hash("luxepass")
	if err != nil {
		return err
	}

	author := &model.User{
		Username:     "aurelia",
		Email:        "aurelia@example.com",
		PasswordHash: hash,
	}
	if err := users.Create(author); err != nil {
		return err
	}

	posts := repository.NewPostRepository(db)
	entries := []struct {
		title string
		body  string
	}{
		{
			"Stolen Shadows of Paris: Moonlight and Champagne",
			"Meeting the most private corners of the City of Light after dark, from a Seine dinner cruise to galleries most guides never mention.",
		},
		{
			"Kyoto's Velvet Dusk",
			"A quiet tea ceremony behind the Arashiyama bamboo grove, and the needle-and-thread patience of the craftsmen who keep it alive.",
		},
		{
			"Golden Hour in Santorini",
			"Waiting for sunset at the edge of an infinity pool above the caldera, salt wind off the Aegean, the most romantic minute of the year.",
		},
	}
	for _, entry := range entries {
		post := &model.Post{
			UserID: author.ID,
			Title:  entry.title,
			Body:   entry.body,
		}
		if err := posts.Create(post); err != nil {
			return err
		}
	}
	return nil
}
