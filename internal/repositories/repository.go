// Package repositories holds the donation and user stores backing the managers.
package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"foodconnect/internal/schemas"
)

var (
	// ErrNoRecord is returned when the referenced row does not exist.
	ErrNoRecord = errors.New("record not found")
	// ErrDuplicate is returned when a unique key is already taken.
	ErrDuplicate = errors.New("duplicate record")
	// ErrConflict is matched by *ConflictError.
	ErrConflict = errors.New("guard not satisfied")
)

// ConflictError reports that a guarded write found the donation in another state.
type ConflictError struct {
	Current schemas.DonationStatus
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("donation is %s", e.Current)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// Guard is the compare part of a compare-and-swap on a donation.
// OTP, when set, must also equal the stored code.
type Guard struct {
	Status schemas.DonationStatus
	OTP    *string
}

// Lifecycle is the swap part: the status and every field that depends on it.
type Lifecycle struct {
	Status     schemas.DonationStatus
	ClaimedBy  *uuid.UUID
	ClaimedAt  *time.Time
	OTP        *string
	PickedUpAt *time.Time
}

// DonationFilter selects donations. Zero fields do not filter.
type DonationFilter struct {
	Status    schemas.DonationStatus
	DonorID   uuid.UUID
	ClaimedBy uuid.UUID
}

// DonationRepository stores donation documents.
type DonationRepository interface {
	Create(ctx context.Context, donation *schemas.Donation) error
	Get(ctx context.Context, id uuid.UUID) (*schemas.Donation, error)
	// Transition atomically replaces the lifecycle fields if guard still holds.
	// It returns ErrNoRecord for unknown ids and a *ConflictError when the guard fails.
	Transition(ctx context.Context, id uuid.UUID, guard Guard, next Lifecycle) (*schemas.Donation, error)
	// DeleteIf removes the donation if its status still equals status.
	DeleteIf(ctx context.Context, id uuid.UUID, status schemas.DonationStatus) error
	// Find returns the matching donations newest first.
	Find(ctx context.Context, filter DonationFilter) ([]*schemas.Donation, error)
	CountByStatus(ctx context.Context) (map[schemas.DonationStatus]int, error)
}

// UserRepository stores user records.
type UserRepository interface {
	Create(ctx context.Context, user *schemas.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*schemas.User, error)
	GetByEmail(ctx context.Context, email string) (*schemas.User, error)
	CountByRole(ctx context.Context) (map[schemas.Role]int, error)
}
