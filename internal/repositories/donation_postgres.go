package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	log "github.com/sirupsen/logrus"

	"foodconnect/internal/interfaces"
	"foodconnect/internal/schemas"
)

const donationColumns = "donation_id, donor_id, food_type, quantity, expiry_time, address, image_url, notes, " +
	"status, claimed_by, claimed_at, otp, picked_up_at, created_at"

// DonationPostgresRepository keeps donations in foodconnect.donations.
type DonationPostgresRepository struct {
	pool interfaces.PgxPoolIface
}

// NewDonationPostgresRepository returns a donation store on the given pool.
func NewDonationPostgresRepository(pool interfaces.PgxPoolIface) *DonationPostgresRepository {
	log.Info("Initializing donation repository")
	return &DonationPostgresRepository{pool: pool}
}

func scanDonation(row pgx.Row) (*schemas.Donation, error) {
	d := &schemas.Donation{}
	var status string
	var claimedBy pgtype.UUID
	var claimedAt, pickedUpAt pgtype.Timestamptz
	var otp pgtype.Text

	if err := row.Scan(&d.ID, &d.DonorID, &d.FoodType, &d.Quantity, &d.ExpiryTime, &d.Address, &d.ImageURL,
		&d.Notes, &status, &claimedBy, &claimedAt, &otp, &pickedUpAt, &d.CreatedAt); err != nil {
		return nil, err
	}

	d.Status = schemas.DonationStatus(status)
	if claimedBy.Valid {
		id := uuid.UUID(claimedBy.Bytes)
		d.ClaimedBy = &id
	}
	if claimedAt.Valid {
		t := claimedAt.Time
		d.ClaimedAt = &t
	}
	if otp.Valid {
		code := otp.String
		d.OTP = &code
	}
	if pickedUpAt.Valid {
		t := pickedUpAt.Time
		d.PickedUpAt = &t
	}
	return d, nil
}

// Create inserts a new donation.
func (r *DonationPostgresRepository) Create(ctx context.Context, d *schemas.Donation) error {
	queryString := "INSERT INTO foodconnect.donations (" + donationColumns + ") " +
		"VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)"
	if _, err := r.pool.Exec(ctx, queryString, d.ID, d.DonorID, d.FoodType, d.Quantity, d.ExpiryTime, d.Address,
		d.ImageURL, d.Notes, string(d.Status), d.ClaimedBy, d.ClaimedAt, d.OTP, d.PickedUpAt, d.CreatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Get returns the donation with the given id.
func (r *DonationPostgresRepository) Get(ctx context.Context, id uuid.UUID) (*schemas.Donation, error) {
	queryString := "SELECT " + donationColumns + " FROM foodconnect.donations WHERE donation_id = $1"
	d, err := scanDonation(r.pool.QueryRow(ctx, queryString, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoRecord
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return d, nil
}

// Transition runs the guarded update as a single statement, so concurrent callers cannot both pass the guard.
func (r *DonationPostgresRepository) Transition(ctx context.Context, id uuid.UUID, guard Guard, next Lifecycle) (*schemas.Donation, error) {
	queryString := `UPDATE foodconnect.donations
		SET status = $3, claimed_by = $4, claimed_at = $5, otp = $6, picked_up_at = $7
		WHERE donation_id = $1 AND status = $2 AND ($8::text IS NULL OR otp = $8)
		RETURNING ` + donationColumns
	row := r.pool.QueryRow(ctx, queryString, id, string(guard.Status), string(next.Status), next.ClaimedBy,
		next.ClaimedAt, next.OTP, next.PickedUpAt, guard.OTP)

	d, err := scanDonation(row)
	if err == nil {
		return d, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return nil, r.guardFailure(ctx, id)
}

// DeleteIf removes the donation if it is still in the given status.
func (r *DonationPostgresRepository) DeleteIf(ctx context.Context, id uuid.UUID, status schemas.DonationStatus) error {
	queryString := "DELETE FROM foodconnect.donations WHERE donation_id = $1 AND status = $2"
	tag, err := r.pool.Exec(ctx, queryString, id, string(status))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.guardFailure(ctx, id)
	}
	return nil
}

// guardFailure tells a missing donation apart from one in another state.
func (r *DonationPostgresRepository) guardFailure(ctx context.Context, id uuid.UUID) error {
	var current string
	queryString := "SELECT status FROM foodconnect.donations WHERE donation_id = $1"
	if err := r.pool.QueryRow(ctx, queryString, id).Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNoRecord
		}
		return fmt.Errorf("db error: %w", err)
	}
	return &ConflictError{Current: schemas.DonationStatus(current)}
}

// Find returns the donations matching filter, newest first.
func (r *DonationPostgresRepository) Find(ctx context.Context, filter DonationFilter) ([]*schemas.Donation, error) {
	conditions := make([]string, 0, 3)
	queryArgs := make([]interface{}, 0, 3)

	if filter.Status != "" {
		queryArgs = append(queryArgs, string(filter.Status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(queryArgs)))
	}
	if filter.DonorID != uuid.Nil {
		queryArgs = append(queryArgs, filter.DonorID)
		conditions = append(conditions, fmt.Sprintf("donor_id = $%d", len(queryArgs)))
	}
	if filter.ClaimedBy != uuid.Nil {
		queryArgs = append(queryArgs, filter.ClaimedBy)
		conditions = append(conditions, fmt.Sprintf("claimed_by = $%d", len(queryArgs)))
	}

	queryString := "SELECT " + donationColumns + " FROM foodconnect.donations"
	if len(conditions) > 0 {
		queryString += " WHERE " + strings.Join(conditions, " AND ")
	}
	queryString += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, queryString, queryArgs...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	donations := make([]*schemas.Donation, 0)
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		donations = append(donations, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return donations, nil
}

// CountByStatus returns the number of donations per lifecycle state.
func (r *DonationPostgresRepository) CountByStatus(ctx context.Context) (map[schemas.DonationStatus]int, error) {
	rows, err := r.pool.Query(ctx, "SELECT status, COUNT(*) FROM foodconnect.donations GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	counts := make(map[schemas.DonationStatus]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		counts[schemas.DonationStatus(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return counts, nil
}
