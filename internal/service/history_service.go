package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"speech-coach/internal/domain"
	"speech-coach/internal/repository"
)

// ErrHistoryNotFound is returned when a history id does not resolve for the user.
var ErrHistoryNotFound = errors.New("history not found")

// HistoryService manages a user's practice history. Every operation is
// scoped to the owning user; one user can never reach another's rows.
type HistoryService interface {
	List(ctx context.Context, userID int64) ([]domain.History, error)
	Get(ctx context.Context, userID, id int64) (*domain.History, error)
	Save(ctx context.Context, userID int64, audioKey, original, corrected, analysis string) (*domain.History, error)
	Delete(ctx context.Context, userID, id int64) (string, error)
}

type historyService struct {
	history repository.HistoryRepository
	users   repository.UserRepository
}

func NewHistoryService(history repository.HistoryRepository, users repository.UserRepository) HistoryService {
	return &historyService{history: history, users: users}
}

func (s *historyService) List(ctx context.Context, userID int64) ([]domain.History, error) {
	// A valid signature can outlive the account; reject stale identities here.
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.history.ListByUser(ctx, userID)
}

func (s *historyService) Get(ctx context.Context, userID, id int64) (*domain.History, error) {
	history, err := s.history.GetForUser(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrHistoryNotFound
		}
		return nil, err
	}
	return history, nil
}

// Save upserts by audio key: a later correction for the same recording
// amends the most recent row instead of creating a duplicate.
func (s *historyService) Save(ctx context.Context, userID int64, audioKey, original, corrected, analysis string) (*domain.History, error) {
	if strings.TrimSpace(audioKey) == "" {
		return nil, fmt.Errorf("%w: audio file is required", ErrValidation)
	}
	if strings.TrimSpace(original) == "" {
		return nil, fmt.Errorf("%w: original paragraph is required", ErrValidation)
	}

	existing, err := s.history.LatestByUserAndAudio(ctx, userID, audioKey)
	if err == nil {
		existing.CorrectedParagraph = corrected
		existing.GrammarAnalysis = analysis
		if err := s.history.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	history := &domain.History{
		UserID:             userID,
		AudioKey:           audioKey,
		OriginalParagraph:  original,
		CorrectedParagraph: corrected,
		GrammarAnalysis:    analysis,
	}
	if _, err := s.history.Create(ctx, history); err != nil {
		return nil, err
	}
	return history, nil
}

// Delete removes the row and returns its audio key for storage cleanup.
func (s *historyService) Delete(ctx context.Context, userID, id int64) (string, error) {
	history, err := s.history.GetForUser(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrHistoryNotFound
		}
		return "", err
	}

	if err := s.history.DeleteForUser(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrHistoryNotFound
		}
		return "", err
	}
	return history.AudioKey, nil
}
