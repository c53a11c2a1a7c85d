package service

import (
	"context"
	"log/slog"

	"github.com/hatmapp/hatm/internal/auth"
	"github.com/hatmapp/hatm/internal/models"
	"github.com/hatmapp/hatm/internal/storage"
)

// UserService manages the lazily-created user accounts behind validated
// init-data payloads.
type UserService struct {
	store storage.Store
}

// NewUserService creates a new UserService with the given storage backend.
func NewUserService(store storage.Store) *UserService {
	return &UserService{store: store}
}

// GetOrCreate resolves a validated Telegram user to a local account,
// creating it on first sight and refreshing profile fields that changed.
func (s *UserService) GetOrCreate(ctx context.Context, tg *auth.TelegramUser) (*models.User, error) {
	user, err := s.store.GetUserByTelegramID(ctx, tg.ID)
	if err != nil {
		return nil, err
	}

	if user == nil {
		user = &models.User{
			TelegramID: tg.ID,
			Username:   tg.Username,
			FirstName:  tg.FirstName,
		}
		if err := s.store.CreateUser(ctx, user); err != nil {
			return nil, err
		}
		slog.Info("User created", "user_id", user.ID, "telegram_id", tg.ID)
		return user, nil
	}

	if (tg.Username != "" && user.Username != tg.Username) ||
		(tg.FirstName != "" && user.FirstName != tg.FirstName) {
		if tg.Username != "" {
			user.Username = tg.Username
		}
		if tg.FirstName != "" {
			user.FirstName = tg.FirstName
		}
		if err := s.store.UpdateUser(ctx, user); err != nil {
			return nil, err
		}
	}

	return user, nil
}
