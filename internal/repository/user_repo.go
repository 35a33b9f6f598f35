package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/clearlabel/transparency-api/internal/models"
)

// UserRepository handles data access for users.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByEmail returns a user by email.
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	const q = `SELECT * FROM users WHERE email = $1 LIMIT 1`

	var u models.User
	if err := r.db.Get(&u, q, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &u, nil
}

// GetByID returns a user by id. Used per-request to resolve the owning
// company, so a revoked company linkage takes effect immediately.
func (r *UserRepository) GetByID(id int) (*models.User, error) {
	const q = `SELECT * FROM users WHERE id = $1 LIMIT 1`

	var u models.User
	if err := r.db.Get(&u, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user.
func (r *UserRepository) Create(user *models.User) error {
	const q = `INSERT INTO users (email, password_hash, name, company_id, is_active)
              VALUES ($1, $2, $3, $4, $5)
              RETURNING id, created_at, updated_at`

	return r.db.QueryRowx(q,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.CompanyID,
		user.IsActive,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}
