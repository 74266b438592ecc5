package order

import (
	"database/sql"
	"encoding/json"
	"strconv"
	"strings"
)

// PostgresRepository stores order line and address snapshots as JSONB,
// keeping the document shape of the order inside a relational row.
type PostgresRepository struct {
	db *sql.DB
}

const (
	orderColumns = `order_id, order_number, user_id, items, shipping_address, status, payment_method, payment_status, transaction_id, subtotal, shipping_cost, discount, total, notes, estimated_delivery, created_at, updated_at`

	insertOrderQuery = `
		INSERT INTO orders (order_number, user_id, items, shipping_address, status, payment_method, payment_status, transaction_id, subtotal, shipping_cost, discount, total, notes, estimated_delivery, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
		RETURNING order_id
	`
	getOrderByIDQuery  = `SELECT ` + orderColumns + ` FROM orders WHERE order_id = $1`
	listByUserQuery    = `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC, order_id DESC`
	listAllOrdersQuery = `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC, order_id DESC`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(o Order) (Order, error) {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return Order{}, err
	}
	addressJSON, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return Order{}, err
	}

	err = r.db.QueryRow(
		insertOrderQuery,
		o.OrderNumber, o.UserID, itemsJSON, addressJSON, o.Status, o.PaymentMethod, o.PaymentStatus,
		o.TransactionID, o.Subtotal, o.ShippingCost, o.Discount, o.Total, o.Notes, o.EstimatedDelivery,
		o.CreatedAt, o.UpdatedAt,
	).Scan(&o.ID)
	if err != nil {
		return Order{}, err
	}
	return o, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (Order, error) {
	var o Order
	var itemsJSON, addressJSON []byte
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.UserID, &itemsJSON, &addressJSON, &o.Status, &o.PaymentMethod,
		&o.PaymentStatus, &o.TransactionID, &o.Subtotal, &o.ShippingCost, &o.Discount, &o.Total,
		&o.Notes, &o.EstimatedDelivery, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return Order{}, err
	}
	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return Order{}, err
	}
	if err := json.Unmarshal(addressJSON, &o.ShippingAddress); err != nil {
		return Order{}, err
	}
	return o, nil
}

func (r *PostgresRepository) GetByID(id int) (Order, error) {
	o, err := scanOrder(r.db.QueryRow(getOrderByIDQuery, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}
	return o, nil
}

func (r *PostgresRepository) ListByUser(userID int) ([]Order, error) {
	return r.list(listByUserQuery, userID)
}

func (r *PostgresRepository) ListAll() ([]Order, error) {
	return r.list(listAllOrdersQuery)
}

func (r *PostgresRepository) list(query string, args ...any) ([]Order, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Update applies only the provided fields, building the SET clause
// dynamically to keep everything else untouched.
func (r *PostgresRepository) Update(id int, fields UpdateFields) error {
	set := make([]string, 0, 4)
	args := make([]any, 0, 5)
	args = append(args, id)

	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, column+" = $"+strconv.Itoa(len(args)))
	}

	if fields.Status != nil {
		add("status", *fields.Status)
	}
	if fields.PaymentStatus != nil {
		add("payment_status", *fields.PaymentStatus)
	}
	if fields.Notes != nil {
		add("notes", *fields.Notes)
	}
	if fields.UpdatedAt != "" {
		add("updated_at", fields.UpdatedAt)
	}
	if len(set) == 0 {
		return nil
	}

	query := `UPDATE orders SET ` + strings.Join(set, ", ") + ` WHERE order_id = $1`
	result, err := r.db.Exec(query, args...)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
