package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// OwnedData is implemented by repositories holding rows owned by a user.
// Deleting a user walks these explicitly; the FK cascade is a backstop.
type OwnedData interface {
	DeleteAllForUser(ctx context.Context, userID string) error
}

type Service struct {
	Repo       Repo
	Dependents []OwnedData
}

func NewService(repo Repo, dependents ...OwnedData) *Service {
	return &Service{Repo: repo, Dependents: dependents}
}

// Register creates a user with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, email, password, firstName, lastName string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return User{}, fmt.Errorf("%w: valid email is required", ErrInvalidInput)
	}
	if len(password) < minPasswordLength {
		return User{}, fmt.Errorf("%w: password must be at least %d characters long", ErrInvalidInput, minPasswordLength)
	}

	if _, err := s.Repo.GetByEmail(ctx, email); err == nil {
		return User{}, ErrEmailTaken
	} else if err != ErrNotFound {
		return User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	user := User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		IsActive:     true,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	return s.Repo.GetByEmail(ctx, email)
}

// Authenticate verifies credentials. Either a user comes back or a single
// failure condition does; there are no partial states.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if err == ErrNotFound {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return User{}, ErrInactiveAccount
	}
	return user, nil
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if strings.TrimSpace(userID) == "" {
		return User{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, userID)
}

// Delete removes a user and every row they own: profiles, job analyses, and
// generated content first, then the user record itself.
func (s *Service) Delete(ctx context.Context, userID string) error {
	if _, err := s.Repo.GetByID(ctx, userID); err != nil {
		return err
	}
	for _, dep := range s.Dependents {
		if err := dep.DeleteAllForUser(ctx, userID); err != nil {
			return fmt.Errorf("delete user data: %w", err)
		}
	}
	return s.Repo.Delete(ctx, userID)
}
