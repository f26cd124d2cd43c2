package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"eventhub/internal/domain"
)

const eventColumns = `id, created_by, name, college, description, category, mode, prize,
		judging_criteria, contact_email, start_date, end_date, deadline,
		min_team, max_team, image_url, created_at, updated_at`

// prefixColumns qualifies each column in a comma-separated list with a table
// alias, for use in JOIN queries.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{DB: db}
}

func scanEvent(row interface{ Scan(...any) error }) (*domain.Event, error) {
	e := &domain.Event{}
	var imageNull sql.NullString
	err := row.Scan(
		&e.ID, &e.CreatedBy, &e.Name, &e.College, &e.Description, &e.Category,
		&e.Mode, &e.Prize, &e.JudgingCriteria, &e.ContactEmail,
		&e.StartDate, &e.EndDate, &e.Deadline,
		&e.MinTeam, &e.MaxTeam, &imageNull, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if imageNull.Valid {
		e.ImageURL = imageNull.String
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (created_by, name, college, description, category, mode, prize,
			judging_criteria, contact_email, start_date, end_date, deadline,
			min_team, max_team, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id
	`
	var imageURL any
	if e.ImageURL != "" {
		imageURL = e.ImageURL
	}
	return r.DB.QueryRowContext(ctx, query,
		e.CreatedBy, e.Name, e.College, e.Description, e.Category, e.Mode, e.Prize,
		e.JudgingCriteria, e.ContactEmail, e.StartDate, e.EndDate, e.Deadline,
		e.MinTeam, e.MaxTeam, imageURL, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE id = $1`, eventColumns)
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events ORDER BY created_at DESC`, eventColumns)
	return r.queryEvents(ctx, query)
}

func (r *eventRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE created_by = $1 ORDER BY created_at DESC`, eventColumns)
	return r.queryEvents(ctx, query, ownerID)
}

func (r *eventRepository) queryEvents(ctx context.Context, query string, args ...any) ([]*domain.Event, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Update applies only the non-nil fields of the update and returns the
// resulting row. The owner check happens in the service against a freshly
// loaded event; this method never touches created_by.
func (r *eventRepository) Update(ctx context.Context, id string, update *domain.EventUpdate) (*domain.Event, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	n := 1

	add := func(column string, value any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, n))
		args = append(args, value)
		n++
	}

	if update.Name != nil {
		add("name", *update.Name)
	}
	if update.College != nil {
		add("college", *update.College)
	}
	if update.Description != nil {
		add("description", *update.Description)
	}
	if update.Category != nil {
		add("category", *update.Category)
	}
	if update.Mode != nil {
		add("mode", *update.Mode)
	}
	if update.Prize != nil {
		add("prize", *update.Prize)
	}
	if update.JudgingCriteria != nil {
		add("judging_criteria", *update.JudgingCriteria)
	}
	if update.ContactEmail != nil {
		add("contact_email", *update.ContactEmail)
	}
	if update.StartDate != nil {
		add("start_date", *update.StartDate)
	}
	if update.EndDate != nil {
		add("end_date", *update.EndDate)
	}
	if update.Deadline != nil {
		add("deadline", *update.Deadline)
	}
	if update.MinTeam != nil {
		add("min_team", *update.MinTeam)
	}
	if update.MaxTeam != nil {
		add("max_team", *update.MaxTeam)
	}
	if update.ImageURL != nil {
		add("image_url", *update.ImageURL)
	}

	if n == 1 {
		// No fields to update; just fetch current row
		return r.GetByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE events SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), n, eventColumns)

	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
