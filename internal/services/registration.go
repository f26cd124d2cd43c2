package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventhub/internal/domain"
)

type registrationService struct {
	registrationRepo domain.RegistrationRepository
	eventRepo        domain.EventRepository
}

// NewRegistrationService creates a RegistrationService with the given repositories.
func NewRegistrationService(registrationRepo domain.RegistrationRepository, eventRepo domain.EventRepository) domain.RegistrationService {
	return &registrationService{
		registrationRepo: registrationRepo,
		eventRepo:        eventRepo,
	}
}

func (s *registrationService) Register(ctx context.Context, userEmail, eventID, teamName string, members []domain.TeamMember) (*domain.Registration, error) {
	userEmail = strings.TrimSpace(strings.ToLower(userEmail))
	if !emailRegexp.MatchString(userEmail) {
		return nil, domain.ValidationError("invalid email format")
	}
	if strings.TrimSpace(teamName) == "" {
		return nil, domain.ValidationError("team_name is required")
	}
	for i, m := range members {
		if strings.TrimSpace(m.Name) == "" || strings.TrimSpace(m.Email) == "" {
			return nil, domain.ValidationError("team member %d needs a name and an email", i+1)
		}
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if len(members) < event.MinTeam || len(members) > event.MaxTeam {
		return nil, domain.ValidationError("team size must be between %d and %d members", event.MinTeam, event.MaxTeam)
	}

	// No existence check first: the storage layer's unique constraint on
	// (user_email, event_id) decides, so two concurrent registrations cannot
	// both slip past a read.
	reg := domain.NewRegistration(userEmail, event.ID, strings.TrimSpace(teamName), members, time.Now())
	if err := s.registrationRepo.Create(ctx, reg); err != nil {
		if errors.Is(err, domain.ErrAlreadyRegistered) {
			return nil, domain.ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("create registration: %w", err)
	}
	return reg, nil
}

func (s *registrationService) ListByUser(ctx context.Context, email string) ([]*domain.RegistrationWithEvent, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if !emailRegexp.MatchString(email) {
		return nil, domain.ValidationError("invalid email format")
	}
	result, err := s.registrationRepo.ListByUserEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return result, nil
}

func (s *registrationService) ListByEvent(ctx context.Context, eventID, callerID string) ([]*domain.Registration, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	// Rosters contain attendee contact details; only the event owner may
	// list them.
	if event.CreatedBy != callerID {
		return nil, domain.ErrForbidden
	}

	regs, err := s.registrationRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list registrations by event: %w", err)
	}
	return regs, nil
}
