package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"foodconnect/internal/schemas"
)

// DonationMemoryRepository is a process-local donation store for development and tests.
// Every method holds the mutex for its whole run, which makes Transition a real compare-and-swap.
type DonationMemoryRepository struct {
	mu        sync.Mutex
	donations map[uuid.UUID]*schemas.Donation
}

// NewDonationMemoryRepository returns an empty in-memory donation store.
func NewDonationMemoryRepository() *DonationMemoryRepository {
	return &DonationMemoryRepository{donations: make(map[uuid.UUID]*schemas.Donation)}
}

func (r *DonationMemoryRepository) Create(_ context.Context, d *schemas.Donation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.donations[d.ID]; ok {
		return ErrDuplicate
	}
	r.donations[d.ID] = d.Clone()
	return nil
}

func (r *DonationMemoryRepository) Get(_ context.Context, id uuid.UUID) (*schemas.Donation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.donations[id]
	if !ok {
		return nil, ErrNoRecord
	}
	return d.Clone(), nil
}

func (r *DonationMemoryRepository) Transition(_ context.Context, id uuid.UUID, guard Guard, next Lifecycle) (*schemas.Donation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.donations[id]
	if !ok {
		return nil, ErrNoRecord
	}
	if d.Status != guard.Status {
		return nil, &ConflictError{Current: d.Status}
	}
	if guard.OTP != nil && (d.OTP == nil || *d.OTP != *guard.OTP) {
		return nil, &ConflictError{Current: d.Status}
	}

	updated := d.Clone()
	updated.Status = next.Status
	updated.ClaimedBy = next.ClaimedBy
	updated.ClaimedAt = next.ClaimedAt
	updated.OTP = next.OTP
	updated.PickedUpAt = next.PickedUpAt
	r.donations[id] = updated.Clone()
	return updated, nil
}

func (r *DonationMemoryRepository) DeleteIf(_ context.Context, id uuid.UUID, status schemas.DonationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.donations[id]
	if !ok {
		return ErrNoRecord
	}
	if d.Status != status {
		return &ConflictError{Current: d.Status}
	}
	delete(r.donations, id)
	return nil
}

func (r *DonationMemoryRepository) Find(_ context.Context, filter DonationFilter) ([]*schemas.Donation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	donations := make([]*schemas.Donation, 0)
	for _, d := range r.donations {
		if filter.Status != "" && d.Status != filter.Status {
			continue
		}
		if filter.DonorID != uuid.Nil && d.DonorID != filter.DonorID {
			continue
		}
		if filter.ClaimedBy != uuid.Nil && (d.ClaimedBy == nil || *d.ClaimedBy != filter.ClaimedBy) {
			continue
		}
		donations = append(donations, d.Clone())
	}

	sort.Slice(donations, func(i, j int) bool {
		if donations[i].CreatedAt.Equal(donations[j].CreatedAt) {
			return donations[i].ID.String() > donations[j].ID.String()
		}
		return donations[i].CreatedAt.After(donations[j].CreatedAt)
	})
	return donations, nil
}

func (r *DonationMemoryRepository) CountByStatus(_ context.Context) (map[schemas.DonationStatus]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := make(map[schemas.DonationStatus]int)
	for _, d := range r.donations {
		counts[d.Status]++
	}
	return counts, nil
}

// UserMemoryRepository is a process-local user store for development and tests.
type UserMemoryRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*schemas.User
}

// NewUserMemoryRepository returns an empty in-memory user store.
func NewUserMemoryRepository() *UserMemoryRepository {
	return &UserMemoryRepository{users: make(map[uuid.UUID]*schemas.User)}
}

func (r *UserMemoryRepository) Create(_ context.Context, u *schemas.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.ID == u.ID || strings.EqualFold(existing.Email, u.Email) {
			return ErrDuplicate
		}
	}
	stored := *u
	r.users[u.ID] = &stored
	return nil
}

func (r *UserMemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*schemas.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrNoRecord
	}
	found := *u
	return &found, nil
}

func (r *UserMemoryRepository) GetByEmail(_ context.Context, email string) (*schemas.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			found := *u
			return &found, nil
		}
	}
	return nil, ErrNoRecord
}

func (r *UserMemoryRepository) CountByRole(_ context.Context) (map[schemas.Role]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[schemas.Role]int)
	for _, u := range r.users {
		counts[u.Role]++
	}
	return counts, nil
}
