package app

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"luxejournal/internal/model"
	"luxejournal/internal/pkg/passwordhash"
)

var (
	ErrUsernameRequired  = errors.New("username is required")
	ErrEmailRequired     = errors.New("email is required")
	ErrPasswordTooShort  = errors.New("password must be at least 6 characters")
	ErrAccountExists     = errors.New("username or email already taken")
	ErrInvalidCredential = errors.New("incorrect email or password")
)

const minPasswordLen = 6

// UserStore is the persistence surface AuthService depends on.
type UserStore interface {
	Create(user *model.User) error
	GetByUsername(username string) (*model.User, error)
	GetByEmail(email string) (*model.User, error)
	GetByID(id uint) (*model.User, error)
}

type AuthService struct {
	users UserStore
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users}
}

// Register validates and stores a new account. Email is normalized to
// lowercase before any lookup or insert.
func (s *AuthService) Register(input RegisterInput) (*model.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if username == "" {
		return nil, ErrUsernameRequired
	}
	if email == "" {
		return nil, ErrEmailRequired
	}
	// Characters, not bytes; a 5-rune CJK password is still too short.
	if utf8.RuneCountInString(input.Password) < minPasswordLen {
		return nil, ErrPasswordTooShort
	}

	existingByName, err := s.users.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if existingByName != nil {
		return nil, ErrAccountExists
	}

	existingByEmail, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existingByEmail != nil {
		return nil, ErrAccountExists
	}

	hash, err := passwordhash.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(user); err != nil {
		// Concurrent registration can still trip the unique index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAccountExists
		}
		return nil, err
	}
	return user, nil
}

// Authenticate returns the matching user, or ErrInvalidCredential for
// both an unknown email and a wrong password, indistinguishably.
func (s *AuthService) Authenticate(email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredential
	}

	user, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredential
	}

	ok, err := passwordhash.Verify(user.PasswordHash, password)
	if err != nil || !ok {
		return nil, ErrInvalidCredential
	}
	return user, nil
}

// GetUserByID returns nil, nil when no such user exists; callers treat
// that as an anonymous session rather than an error.
func (s *AuthService) GetUserByID(id uint) (*model.User, error) {
	if id == 0 {
		return nil, nil
	}
	return s.users.GetByID(id)
}
