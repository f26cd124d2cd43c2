package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventhub/internal/domain"
)

func teamOf(n int) []domain.TeamMember {
	members := make([]domain.TeamMember, n)
	for i := range members {
		members[i] = domain.TeamMember{
			Name:  fmt.Sprintf("Member %d", i+1),
			Email: fmt.Sprintf("member%d@example.com", i+1),
		}
	}
	return members
}

func TestRegistrationService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success normalizes the email", func(t *testing.T) {
		events := newMockEventRepository(hostedEvent("ev-1", "host-1", ""))
		regs := newMockRegistrationRepository()
		svc := NewRegistrationService(regs, events)

		reg, err := svc.Register(ctx, "  Alice@Example.COM ", "ev-1", "Team Rocket", teamOf(3))
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", reg.UserEmail)
		assert.Equal(t, "ev-1", reg.EventID)
		assert.NotEmpty(t, reg.ID)
	})

	t.Run("unknown event", func(t *testing.T) {
		svc := NewRegistrationService(newMockRegistrationRepository(), newMockEventRepository())
		_, err := svc.Register(ctx, "alice@example.com", "ev-missing", "Team", teamOf(2))
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("team size outside event bounds", func(t *testing.T) {
		// hostedEvent has min 2, max 4
		events := newMockEventRepository(hostedEvent("ev-1", "host-1", ""))
		svc := NewRegistrationService(newMockRegistrationRepository(), events)

		_, err := svc.Register(ctx, "alice@example.com", "ev-1", "Solo", teamOf(1))
		assert.ErrorIs(t, err, domain.ErrValidation)

		_, err = svc.Register(ctx, "alice@example.com", "ev-1", "Crowd", teamOf(5))
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("members require name and email", func(t *testing.T) {
		events := newMockEventRepository(hostedEvent("ev-1", "host-1", ""))
		svc := NewRegistrationService(newMockRegistrationRepository(), events)

		members := teamOf(3)
		members[1].Email = ""
		_, err := svc.Register(ctx, "alice@example.com", "ev-1", "Team", members)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("missing team name", func(t *testing.T) {
		events := newMockEventRepository(hostedEvent("ev-1", "host-1", ""))
		svc := NewRegistrationService(newMockRegistrationRepository(), events)

		_, err := svc.Register(ctx, "alice@example.com", "ev-1", "  ", teamOf(2))
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("second registration for the same user and event conflicts", func(t *testing.T) {
		events := newMockEventRepository(hostedEvent("ev-1", "host-1", ""))
		regs := newMockRegistrationRepository()
		svc := NewRegistrationService(regs, events)

		_, err := svc.Register(ctx, "alice@example.com", "ev-1", "Team A", teamOf(2))
		require.NoError(t, err)

		_, err = svc.Register(ctx, "ALICE@example.com", "ev-1", "Team B", teamOf(3))
		assert.ErrorIs(t, err, domain.ErrAlreadyRegistered)
		assert.Len(t, regs.byKey, 1, "exactly one registration persisted")
	})

	t.Run("same user may register for a different event", func(t *testing.T) {
		events := newMockEventRepository(hostedEvent("ev-1", "host-1", ""), hostedEvent("ev-2", "host-1", ""))
		svc := NewRegistrationService(newMockRegistrationRepository(), events)

		_, err := svc.Register(ctx, "alice@example.com", "ev-1", "Team A", teamOf(2))
		require.NoError(t, err)
		_, err = svc.Register(ctx, "alice@example.com", "ev-2", "Team A", teamOf(2))
		require.NoError(t, err)
	})
}

// Concurrent registrations for the same (user, event) must yield exactly one
// success; the rest observe the storage-level uniqueness violation.
func TestRegistrationService_Register_concurrent(t *testing.T) {
	ctx := context.Background()
	events := newMockEventRepository(hostedEvent("ev-1", "host-1", ""))
	regs := newMockRegistrationRepository()
	svc := NewRegistrationService(regs, events)

	const n = 32
	var wg sync.WaitGroup
	errs := make([]error, n)

	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Register(ctx, "alice@example.com", "ev-1", fmt.Sprintf("Team %d", i), teamOf(3))
		}(i)
	}
	wg.Wait()

	var successes, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case assert.ErrorIs(t, err, domain.ErrAlreadyRegistered):
			conflicts++
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, conflicts)
	assert.Len(t, regs.byKey, 1)
}

func TestRegistrationService_ListByUser(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid email", func(t *testing.T) {
		svc := NewRegistrationService(newMockRegistrationRepository(), newMockEventRepository())
		_, err := svc.ListByUser(ctx, "not-an-email")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("normalizes email before querying", func(t *testing.T) {
		regs := newMockRegistrationRepository()
		regs.byUser["alice@example.com"] = []*domain.RegistrationWithEvent{
			{Registration: &domain.Registration{ID: "reg-1"}, Event: hostedEvent("ev-1", "host-1", "")},
		}
		svc := NewRegistrationService(regs, newMockEventRepository())

		result, err := svc.ListByUser(ctx, " ALICE@example.com ")
		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, "reg-1", result[0].Registration.ID)
	})
}

func TestRegistrationService_ListByEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown event", func(t *testing.T) {
		svc := NewRegistrationService(newMockRegistrationRepository(), newMockEventRepository())
		_, err := svc.ListByEvent(ctx, "ev-missing", "host-1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("non-owner may not view the roster", func(t *testing.T) {
		events := newMockEventRepository(hostedEvent("ev-1", "host-1", ""))
		svc := NewRegistrationService(newMockRegistrationRepository(), events)

		_, err := svc.ListByEvent(ctx, "ev-1", "host-2")
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("owner sees all registrations", func(t *testing.T) {
		events := newMockEventRepository(hostedEvent("ev-1", "host-1", ""))
		regs := newMockRegistrationRepository()
		svc := NewRegistrationService(regs, events)

		_, err := svc.Register(ctx, "alice@example.com", "ev-1", "Team A", teamOf(2))
		require.NoError(t, err)
		_, err = svc.Register(ctx, "bob@example.com", "ev-1", "Team B", teamOf(3))
		require.NoError(t, err)

		result, err := svc.ListByEvent(ctx, "ev-1", "host-1")
		require.NoError(t, err)
		assert.Len(t, result, 2)
	})
}
