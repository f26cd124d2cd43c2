package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"eventhub/internal/domain"
)

type registrationRepository struct {
	DB *sql.DB
}

func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{DB: db}
}

// Create inserts the registration. The unique index on (user_email, event_id)
// is the sole enforcement of the dedup invariant: a violation surfaces as
// ErrAlreadyRegistered, and there is no prior existence read that could race.
func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	members, err := json.Marshal(reg.TeamMembers)
	if err != nil {
		return fmt.Errorf("marshal team members: %w", err)
	}
	query := `
		INSERT INTO registrations (user_email, event_id, team_name, team_members, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err = r.DB.QueryRowContext(ctx, query, reg.UserEmail, reg.EventID, reg.TeamName, members, reg.CreatedAt).
		Scan(&reg.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrAlreadyRegistered
		}
		return err
	}
	return nil
}

func (r *registrationRepository) ListByUserEmail(ctx context.Context, email string) ([]*domain.RegistrationWithEvent, error) {
	query := fmt.Sprintf(`
		SELECT r.id, r.user_email, r.event_id, r.team_name, r.team_members, r.created_at,
			%s
		FROM registrations r
		JOIN events e ON e.id = r.event_id
		WHERE r.user_email = $1
		ORDER BY r.created_at DESC
	`, prefixColumns("e", eventColumns))
	rows, err := r.DB.QueryContext(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*domain.RegistrationWithEvent, 0)
	for rows.Next() {
		reg := &domain.Registration{}
		e := &domain.Event{}
		var members []byte
		var imageNull sql.NullString
		err := rows.Scan(
			&reg.ID, &reg.UserEmail, &reg.EventID, &reg.TeamName, &members, &reg.CreatedAt,
			&e.ID, &e.CreatedBy, &e.Name, &e.College, &e.Description, &e.Category,
			&e.Mode, &e.Prize, &e.JudgingCriteria, &e.ContactEmail,
			&e.StartDate, &e.EndDate, &e.Deadline,
			&e.MinTeam, &e.MaxTeam, &imageNull, &e.CreatedAt, &e.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(members, &reg.TeamMembers); err != nil {
			return nil, fmt.Errorf("unmarshal team members: %w", err)
		}
		if imageNull.Valid {
			e.ImageURL = imageNull.String
		}
		result = append(result, &domain.RegistrationWithEvent{Registration: reg, Event: e})
	}
	return result, rows.Err()
}

func (r *registrationRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Registration, error) {
	query := `
		SELECT id, user_email, event_id, team_name, team_members, created_at
		FROM registrations
		WHERE event_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	regs := make([]*domain.Registration, 0)
	for rows.Next() {
		reg := &domain.Registration{}
		var members []byte
		if err := rows.Scan(&reg.ID, &reg.UserEmail, &reg.EventID, &reg.TeamName, &members, &reg.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(members, &reg.TeamMembers); err != nil {
			return nil, fmt.Errorf("unmarshal team members: %w", err)
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}
