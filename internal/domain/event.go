package domain

import (
	"context"
	"strings"
	"time"
)

// Event modes.
const (
	ModeOnline  = "online"
	ModeOffline = "offline"
)

// Event represents a published event owned by a host
// swagger:model Event
type Event struct {
	ID              string    `json:"id"`
	CreatedBy       string    `json:"created_by"`
	Name            string    `json:"name"`
	College         string    `json:"college"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	Mode            string    `json:"mode"`
	Prize           string    `json:"prize"`
	JudgingCriteria string    `json:"judging_criteria"`
	ContactEmail    string    `json:"contact_email"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	Deadline        time.Time `json:"deadline"`
	MinTeam         int       `json:"min_team"`
	MaxTeam         int       `json:"max_team"`
	ImageURL        string    `json:"image_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// EventInput carries the client-settable fields for creating an event.
// Ownership and identity are never part of it.
type EventInput struct {
	Name            string
	College         string
	Description     string
	Category        string
	Mode            string
	Prize           string
	JudgingCriteria string
	ContactEmail    string
	StartDate       time.Time
	EndDate         time.Time
	Deadline        time.Time
	MinTeam         int
	MaxTeam         int
}

// Validate checks the required fields and ordering invariants for a new event.
func (in *EventInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ValidationError("name is required")
	}
	if in.MinTeam < 1 {
		return ValidationError("min_team must be at least 1")
	}
	if in.MaxTeam < in.MinTeam {
		return ValidationError("max_team must be greater than or equal to min_team")
	}
	if in.Mode != "" && in.Mode != ModeOnline && in.Mode != ModeOffline {
		return ValidationError("mode must be %q or %q", ModeOnline, ModeOffline)
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() || in.Deadline.IsZero() {
		return ValidationError("start_date, end_date and deadline are required")
	}
	if in.EndDate.Before(in.StartDate) {
		return ValidationError("end_date must not be before start_date")
	}
	if in.Deadline.After(in.StartDate) {
		return ValidationError("deadline must not be after start_date")
	}
	return nil
}

// EventUpdate carries a partial update. Nil fields are left untouched.
// Only allow-listed fields appear here; id and created_by are never
// client-settable.
type EventUpdate struct {
	Name            *string
	College         *string
	Description     *string
	Category        *string
	Mode            *string
	Prize           *string
	JudgingCriteria *string
	ContactEmail    *string
	StartDate       *time.Time
	EndDate         *time.Time
	Deadline        *time.Time
	MinTeam         *int
	MaxTeam         *int
	ImageURL        *string
}

// IsZero reports whether the update changes nothing.
func (u *EventUpdate) IsZero() bool {
	return u.Name == nil && u.College == nil && u.Description == nil &&
		u.Category == nil && u.Mode == nil && u.Prize == nil &&
		u.JudgingCriteria == nil && u.ContactEmail == nil &&
		u.StartDate == nil && u.EndDate == nil && u.Deadline == nil &&
		u.MinTeam == nil && u.MaxTeam == nil && u.ImageURL == nil
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context) ([]*Event, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*Event, error)
	Update(ctx context.Context, id string, update *EventUpdate) (*Event, error)
	Delete(ctx context.Context, id string) error
}

// ImageUpload is the decoded multipart image attached to a create or update
// request. Format whitelisting happens at the HTTP boundary.
type ImageUpload struct {
	Data        []byte
	ContentType string
}

// EventService defines the business logic for event management. All mutating
// operations are ownership-gated: the event is loaded fresh and its
// created_by field compared against the caller before any change.
type EventService interface {
	Create(ctx context.Context, ownerID string, input *EventInput, image *ImageUpload) (*Event, error)
	List(ctx context.Context) ([]*Event, error)
	GetByID(ctx context.Context, id string) (*Event, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*Event, error)
	Update(ctx context.Context, id, callerID string, update *EventUpdate, image *ImageUpload) (*Event, error)
	Delete(ctx context.Context, id, callerID string) error
}
