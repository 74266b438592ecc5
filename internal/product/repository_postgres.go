package product

import (
	"database/sql"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	productColumns = `product_id, name, description, category, price, stock_quantity, is_active, thumbnail, created_at, updated_at`

	listProductsQuery = `
		SELECT ` + productColumns + `
		FROM product
		WHERE is_active AND ($1 = '' OR category = $1)
		ORDER BY product_id
	`
	getProductByIDQuery = `
		SELECT ` + productColumns + `
		FROM product
		WHERE product_id = $1
	`
	listProductsByIDsQuery = `
		SELECT ` + productColumns + `
		FROM product
		WHERE product_id = ANY($1::int[])
		ORDER BY array_position($1::int[], product_id)
	`
	insertProductQuery = `
		INSERT INTO product (name, description, category, price, stock_quantity, is_active, thumbnail, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING product_id
	`
	updateProductQuery = `
		UPDATE product
		SET name=$2, description=$3, category=$4, price=$5, stock_quantity=$6, is_active=$7, thumbnail=$8, updated_at=$9
		WHERE product_id=$1
	`
	deleteProductQuery = `DELETE FROM product WHERE product_id = $1`

	// Clamped at zero in a single statement so the decrement itself can
	// never drive stock negative, even when two checkouts race past the
	// read-time stock check.
	decrementStockQuery = `
		UPDATE product
		SET stock_quantity = GREATEST(stock_quantity - $2, 0)
		WHERE product_id = $1
	`
	// Restoration is unclamped: a cancellation returns exactly the units
	// the order took.
	restoreStockQuery = `
		UPDATE product
		SET stock_quantity = stock_quantity + $2
		WHERE product_id = $1
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.Price, &p.StockQuantity, &p.IsActive, &p.Thumbnail, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *PostgresRepository) List(category string) ([]Product, error) {
	rows, err := r.db.Query(listProductsQuery, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) ListByIDs(ids []int) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}

	rows, err := r.db.Query(listProductsByIDsQuery, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Product, 0, len(ids))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(id int) (Product, error) {
	p, err := scanProduct(r.db.QueryRow(getProductByIDQuery, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

func (r *PostgresRepository) Create(p Product) (Product, error) {
	err := r.db.QueryRow(
		insertProductQuery,
		p.Name, p.Description, p.Category, p.Price, p.StockQuantity, p.IsActive, p.Thumbnail, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *PostgresRepository) Update(id int, p Product) (Product, error) {
	result, err := r.db.Exec(
		updateProductQuery,
		id, p.Name, p.Description, p.Category, p.Price, p.StockQuantity, p.IsActive, p.Thumbnail, p.UpdatedAt,
	)
	if err != nil {
		return Product{}, err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return Product{}, ErrNotFound
	}

	return r.GetByID(id)
}

func (r *PostgresRepository) Delete(id int) error {
	result, err := r.db.Exec(deleteProductQuery, id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) DecrementStock(id, qty int) error {
	result, err := r.db.Exec(decrementStockQuery, id, qty)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) RestoreStock(id, qty int) error {
	result, err := r.db.Exec(restoreStockQuery, id, qty)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
