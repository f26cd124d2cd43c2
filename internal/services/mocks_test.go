package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"eventhub/internal/domain"
)

// mockUserRepository is an in-memory user store keyed by email.
type mockUserRepository struct {
	mu    sync.Mutex
	users map[string]*domain.User
	err   error
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[string]*domain.User)}
}

func (m *mockUserRepository) Create(ctx context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.users[u.Email]; ok {
		return domain.ErrDuplicateEmail
	}
	u.ID = fmt.Sprintf("user-%d", len(m.users)+1)
	m.users[u.Email] = u
	return nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

// fakeHasher derives deterministic hashes so auth tests don't pay bcrypt cost.
type fakeHasher struct{}

func (fakeHasher) GenerateSalt() (string, error) { return "salt", nil }

func (fakeHasher) Hash(salt, password string) (string, error) {
	return salt + ":" + password, nil
}

func (fakeHasher) Compare(hash, salt, password string) error {
	if hash != salt+":"+password {
		return fmt.Errorf("mismatch")
	}
	return nil
}

// fakeIssuer returns a predictable token embedding its inputs.
type fakeIssuer struct{}

func (fakeIssuer) Issue(userID, email, role string, expiry time.Duration) (string, error) {
	return "token:" + userID + ":" + role, nil
}

// mockEventRepository is an in-memory event store.
type mockEventRepository struct {
	mu     sync.Mutex
	events map[string]*domain.Event
	nextID int
	err    error
}

func newMockEventRepository(events ...*domain.Event) *mockEventRepository {
	m := &mockEventRepository{events: make(map[string]*domain.Event)}
	for _, e := range events {
		m.events[e.ID] = e
	}
	return m
}

func (m *mockEventRepository) Create(ctx context.Context, e *domain.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.nextID++
	e.ID = fmt.Sprintf("ev-%d", m.nextID)
	m.events[e.ID] = e
	return nil
}

func (m *mockEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	e, ok := m.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *e
	return &copied, nil
}

func (m *mockEventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.Event, 0, len(m.events))
	for _, e := range m.events {
		result = append(result, e)
	}
	return result, nil
}

func (m *mockEventRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.Event, 0)
	for _, e := range m.events {
		if e.CreatedBy == ownerID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *mockEventRepository) Update(ctx context.Context, id string, update *domain.EventUpdate) (*domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if update.Name != nil {
		e.Name = *update.Name
	}
	if update.Description != nil {
		e.Description = *update.Description
	}
	if update.MinTeam != nil {
		e.MinTeam = *update.MinTeam
	}
	if update.MaxTeam != nil {
		e.MaxTeam = *update.MaxTeam
	}
	if update.ImageURL != nil {
		e.ImageURL = *update.ImageURL
	}
	e.UpdatedAt = time.Now()
	copied := *e
	return &copied, nil
}

func (m *mockEventRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.events, id)
	return nil
}

// mockRegistrationRepository enforces the (user_email, event_id) unique
// constraint the way the real storage layer does, so concurrent Create calls
// see exactly one winner.
type mockRegistrationRepository struct {
	mu     sync.Mutex
	byKey  map[string]*domain.Registration
	byUser map[string][]*domain.RegistrationWithEvent
	nextID int
	err    error
}

func newMockRegistrationRepository() *mockRegistrationRepository {
	return &mockRegistrationRepository{
		byKey:  make(map[string]*domain.Registration),
		byUser: make(map[string][]*domain.RegistrationWithEvent),
	}
}

func (m *mockRegistrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	key := reg.UserEmail + ":" + reg.EventID
	if _, ok := m.byKey[key]; ok {
		return domain.ErrAlreadyRegistered
	}
	m.nextID++
	reg.ID = fmt.Sprintf("reg-%d", m.nextID)
	m.byKey[key] = reg
	return nil
}

func (m *mockRegistrationRepository) ListByUserEmail(ctx context.Context, email string) ([]*domain.RegistrationWithEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.byUser[email], nil
}

func (m *mockRegistrationRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	regs := make([]*domain.Registration, 0)
	for _, r := range m.byKey {
		if r.EventID == eventID {
			regs = append(regs, r)
		}
	}
	return regs, nil
}

// mockAssetStore records uploads and signals deletes on a channel so tests
// can observe fire-and-forget dispatches. deleteErr injects failures.
type mockAssetStore struct {
	mu        sync.Mutex
	uploads   int
	uploadErr error
	deleteErr error
	deleted   chan string
}

func newMockAssetStore() *mockAssetStore {
	return &mockAssetStore{deleted: make(chan string, 8)}
}

func (m *mockAssetStore) Upload(ctx context.Context, data []byte, contentType string) (string, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.uploadErr != nil {
		return "", "", m.uploadErr
	}
	m.uploads++
	key := fmt.Sprintf("%supload-%d", domain.AssetNamespace, m.uploads)
	return "https://assets.test/" + key, key, nil
}

func (m *mockAssetStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	err := m.deleteErr
	m.mu.Unlock()
	m.deleted <- key
	return err
}

// awaitDelete waits for a scheduled deletion to be dispatched.
func (m *mockAssetStore) awaitDelete(timeout time.Duration) (string, bool) {
	select {
	case key := <-m.deleted:
		return key, true
	case <-time.After(timeout):
		return "", false
	}
}
