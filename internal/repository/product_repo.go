package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/clearlabel/transparency-api/internal/models"
)

// ProductRepository handles data access for products.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// GetAll returns all products ordered by creation time descending.
// No pagination: the intake surface exposes the full list.
func (r *ProductRepository) GetAll() ([]models.Product, error) {
	const q = `SELECT * FROM products ORDER BY created_at DESC`

	var products []models.Product
	if err := r.db.Select(&products, q); err != nil {
		return nil, err
	}
	return products, nil
}

// GetByID returns a single product by id.
func (r *ProductRepository) GetByID(id int) (*models.Product, error) {
	const q = `SELECT * FROM products WHERE id = $1 LIMIT 1`

	var p models.Product
	if err := r.db.Get(&p, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &p, nil
}

// Create inserts a new product. The id and creation timestamp are assigned by
// the database and written back into the model.
func (r *ProductRepository) Create(product *models.Product) error {
	const q = `INSERT INTO products (name, description, company_id)
              VALUES ($1, $2, $3)
              RETURNING id, created_at`

	return r.db.QueryRowx(q,
		product.Name,
		product.Description,
		product.CompanyID,
	).Scan(&product.ID, &product.CreatedAt)
}
