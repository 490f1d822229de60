package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	log "github.com/sirupsen/logrus"

	"foodconnect/internal/interfaces"
	"foodconnect/internal/schemas"
)

const userColumns = "user_id, name, email, password, role, contact, created_at"

// UserPostgresRepository keeps users in foodconnect.users.
type UserPostgresRepository struct {
	pool interfaces.PgxPoolIface
}

// NewUserPostgresRepository returns a user store on the given pool.
func NewUserPostgresRepository(pool interfaces.PgxPoolIface) *UserPostgresRepository {
	log.Info("Initializing user repository")
	return &UserPostgresRepository{pool: pool}
}

func scanUser(row pgx.Row) (*schemas.User, error) {
	u := &schemas.User{}
	var role string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &role, &u.Contact, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.Role = schemas.Role(role)
	return u, nil
}

// Create inserts the user. A taken email yields ErrDuplicate.
func (r *UserPostgresRepository) Create(ctx context.Context, u *schemas.User) error {
	queryString := "INSERT INTO foodconnect.users (" + userColumns + ") VALUES ($1, $2, $3, $4, $5, $6, $7)"
	_, err := r.pool.Exec(ctx, queryString, u.ID, u.Name, u.Email, u.Password, string(u.Role), u.Contact, u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrDuplicate
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// GetByID returns the user with the given id.
func (r *UserPostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*schemas.User, error) {
	queryString := "SELECT " + userColumns + " FROM foodconnect.users WHERE user_id = $1"
	return r.getOne(ctx, queryString, id)
}

// GetByEmail returns the user registered with the given lower-cased email.
func (r *UserPostgresRepository) GetByEmail(ctx context.Context, email string) (*schemas.User, error) {
	queryString := "SELECT " + userColumns + " FROM foodconnect.users WHERE email = $1"
	return r.getOne(ctx, queryString, email)
}

func (r *UserPostgresRepository) getOne(ctx context.Context, queryString string, arg interface{}) (*schemas.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, queryString, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoRecord
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

// CountByRole returns the number of users per role.
func (r *UserPostgresRepository) CountByRole(ctx context.Context) (map[schemas.Role]int, error) {
	rows, err := r.pool.Query(ctx, "SELECT role, COUNT(*) FROM foodconnect.users GROUP BY role")
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	counts := make(map[schemas.Role]int)
	for rows.Next() {
		var role string
		var count int
		if err := rows.Scan(&role, &count); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		counts[schemas.Role(role)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return counts, nil
}
