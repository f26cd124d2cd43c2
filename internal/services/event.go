package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"eventhub/internal/domain"
)

// assetDeleteTimeout bounds a background asset deletion; the request that
// scheduled it has already returned by then.
const assetDeleteTimeout = 30 * time.Second

type eventService struct {
	eventRepo domain.EventRepository
	assets    domain.AssetStore
	logger    *slog.Logger
}

// NewEventService creates an EventService with the given repository and asset store.
func NewEventService(eventRepo domain.EventRepository, assets domain.AssetStore, logger *slog.Logger) domain.EventService {
	return &eventService{
		eventRepo: eventRepo,
		assets:    assets,
		logger:    logger,
	}
}

func (s *eventService) Create(ctx context.Context, ownerID string, input *domain.EventInput, image *domain.ImageUpload) (*domain.Event, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	// Upload before persisting so the stored record never references an
	// asset that does not exist.
	imageURL := ""
	if image != nil {
		url, _, err := s.assets.Upload(ctx, image.Data, image.ContentType)
		if err != nil {
			return nil, fmt.Errorf("upload event image: %w", err)
		}
		imageURL = url
	}

	now := time.Now()
	event := &domain.Event{
		CreatedBy:       ownerID,
		Name:            input.Name,
		College:         input.College,
		Description:     input.Description,
		Category:        input.Category,
		Mode:            input.Mode,
		Prize:           input.Prize,
		JudgingCriteria: input.JudgingCriteria,
		ContactEmail:    input.ContactEmail,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		Deadline:        input.Deadline,
		MinTeam:         input.MinTeam,
		MaxTeam:         input.MaxTeam,
		ImageURL:        imageURL,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		// The uploaded image is now orphaned; schedule best-effort cleanup.
		if imageURL != "" {
			s.scheduleAssetDelete(imageURL)
		}
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *eventService) List(ctx context.Context) ([]*domain.Event, error) {
	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (s *eventService) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	events, err := s.eventRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list events by owner: %w", err)
	}
	return events, nil
}

func (s *eventService) Update(ctx context.Context, id, callerID string, update *domain.EventUpdate, image *domain.ImageUpload) (*domain.Event, error) {
	// Ownership is checked against a freshly loaded record; the caller's
	// claim of ownership is never trusted.
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.CreatedBy != callerID {
		return nil, domain.ErrForbidden
	}
	if err := validateUpdate(event, update); err != nil {
		return nil, err
	}

	oldImageURL := ""
	if image != nil {
		url, _, err := s.assets.Upload(ctx, image.Data, image.ContentType)
		if err != nil {
			return nil, fmt.Errorf("upload replacement image: %w", err)
		}
		update.ImageURL = &url
		oldImageURL = event.ImageURL
	}

	updated, err := s.eventRepo.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}

	// The record now points at the new asset; the old one is cleaned up
	// best-effort and must never fail the update.
	if oldImageURL != "" {
		s.scheduleAssetDelete(oldImageURL)
	}
	return updated, nil
}

func (s *eventService) Delete(ctx context.Context, id, callerID string) error {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if event.CreatedBy != callerID {
		return domain.ErrForbidden
	}

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}

	if event.ImageURL != "" {
		s.scheduleAssetDelete(event.ImageURL)
	}
	return nil
}

// scheduleAssetDelete dispatches a best-effort deletion of the asset behind
// the URL. It returns immediately; a failure is logged and never reaches the
// request path, at the accepted cost of an orphaned asset.
func (s *eventService) scheduleAssetDelete(url string) {
	key := domain.DeriveAssetKey(url)
	if key == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), assetDeleteTimeout)
		defer cancel()
		if err := s.assets.Delete(ctx, key); err != nil {
			s.logger.Warn("failed to delete asset", "key", key, "err", err)
		}
	}()
}

// validateUpdate checks the invariants that a partial update can disturb,
// merging updated fields over the current record before checking.
func validateUpdate(current *domain.Event, update *domain.EventUpdate) error {
	if update.Name != nil && *update.Name == "" {
		return domain.ValidationError("name cannot be empty")
	}
	if update.Mode != nil && *update.Mode != domain.ModeOnline && *update.Mode != domain.ModeOffline {
		return domain.ValidationError("mode must be %q or %q", domain.ModeOnline, domain.ModeOffline)
	}

	minTeam, maxTeam := current.MinTeam, current.MaxTeam
	if update.MinTeam != nil {
		minTeam = *update.MinTeam
	}
	if update.MaxTeam != nil {
		maxTeam = *update.MaxTeam
	}
	if minTeam < 1 {
		return domain.ValidationError("min_team must be at least 1")
	}
	if maxTeam < minTeam {
		return domain.ValidationError("max_team must be greater than or equal to min_team")
	}

	start, end, deadline := current.StartDate, current.EndDate, current.Deadline
	if update.StartDate != nil {
		start = *update.StartDate
	}
	if update.EndDate != nil {
		end = *update.EndDate
	}
	if update.Deadline != nil {
		deadline = *update.Deadline
	}
	if end.Before(start) {
		return domain.ValidationError("end_date must not be before start_date")
	}
	if deadline.After(start) {
		return domain.ValidationError("deadline must not be after start_date")
	}
	return nil
}
