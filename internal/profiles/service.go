package profiles

import (
	"context"
	"encoding/json"
	"fmt"
)

const defaultHistoryLimit = 10

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Active returns the user's active profile, or ErrNoActiveProfile.
func (s *Service) Active(ctx context.Context, userID string) (Profile, error) {
	return s.Repo.GetActive(ctx, userID)
}

// Create stores version 1. It fails when an active profile already exists;
// callers must update instead.
func (s *Service) Create(ctx context.Context, userID string, data json.RawMessage) (Profile, error) {
	if err := validateProfileData(data); err != nil {
		return Profile{}, err
	}
	if _, err := s.Repo.GetActive(ctx, userID); err == nil {
		return Profile{}, ErrActiveExists
	} else if err != ErrNoActiveProfile {
		return Profile{}, err
	}
	return s.Repo.CreateVersion(ctx, userID, data)
}

// Update deactivates the current version and inserts the next one. It
// succeeds whether or not a prior version exists.
func (s *Service) Update(ctx context.Context, userID string, data json.RawMessage) (Profile, error) {
	if err := validateProfileData(data); err != nil {
		return Profile{}, err
	}
	return s.Repo.CreateVersion(ctx, userID, data)
}

// History lists profile versions, newest first.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]Profile, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.Repo.History(ctx, userID, limit)
}

// Revert copies a historical version's data into a new active row. The
// historical row is never touched.
func (s *Service) Revert(ctx context.Context, userID string, version int) (Profile, error) {
	target, err := s.Repo.GetVersion(ctx, userID, version)
	if err != nil {
		return Profile{}, err
	}
	return s.Repo.CreateVersion(ctx, userID, target.ProfileData)
}

// Import validates externally sourced profile JSON and stores it as the next
// version.
func (s *Service) Import(ctx context.Context, userID string, data json.RawMessage) (Profile, error) {
	if err := validateProfileData(data); err != nil {
		return Profile{}, err
	}
	return s.Repo.CreateVersion(ctx, userID, data)
}

func validateProfileData(data json.RawMessage) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: profile data is required", ErrInvalidInput)
	}
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("%w: profile data must be a JSON object", ErrInvalidInput)
	}
	return nil
}
