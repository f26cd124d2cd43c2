package domain

import (
	"context"
	"time"
)

// TeamMember is one entry in a registration's roster.
// swagger:model TeamMember
type TeamMember struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// Registration represents a team registered by a user for an event. The pair
// (user_email, event_id) is unique; registrations are never mutated or
// deleted.
// swagger:model Registration
type Registration struct {
	ID          string       `json:"id"`
	UserEmail   string       `json:"user_email"`
	EventID     string       `json:"event_id"`
	TeamName    string       `json:"team_name"`
	TeamMembers []TeamMember `json:"team_members"`
	CreatedAt   time.Time    `json:"created_at"`
}

// NewRegistration creates a new Registration. ID is typically set by the repository on create.
func NewRegistration(userEmail, eventID, teamName string, members []TeamMember, createdAt time.Time) *Registration {
	return &Registration{
		UserEmail:   userEmail,
		EventID:     eventID,
		TeamName:    teamName,
		TeamMembers: members,
		CreatedAt:   createdAt,
	}
}

// RegistrationWithEvent bundles a registration with its related event.
type RegistrationWithEvent struct {
	Registration *Registration `json:"registration"`
	Event        *Event        `json:"event"`
}

// RegistrationRepository defines storage operations for registrations.
// Create must rely on the storage layer's unique constraint on
// (user_email, event_id) and return ErrAlreadyRegistered on violation; the
// dedup invariant is never enforced by a read-then-write.
type RegistrationRepository interface {
	Create(ctx context.Context, reg *Registration) error
	ListByUserEmail(ctx context.Context, email string) ([]*RegistrationWithEvent, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Registration, error)
}

// RegistrationService defines the business logic for team registration.
type RegistrationService interface {
	// Register creates a registration for the (normalized) email and event.
	// Fails with ErrNotFound when the event is missing, a validation error
	// when the roster size is outside the event's team bounds, and
	// ErrAlreadyRegistered on a duplicate.
	Register(ctx context.Context, userEmail, eventID, teamName string, members []TeamMember) (*Registration, error)
	ListByUser(ctx context.Context, email string) ([]*RegistrationWithEvent, error)
	// ListByEvent returns an event's roster. Restricted to the event owner.
	ListByEvent(ctx context.Context, eventID, callerID string) ([]*Registration, error)
}
