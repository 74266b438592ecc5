package cart

import (
	"database/sql"
	"encoding/json"
	"strconv"
	"time"
)

// PostgresRepository keeps one row per user in the carts table with the
// line map as a JSONB column:
//   user_id int primary key,
//   items jsonb not null default '{}',
//   updated_at text

type PostgresRepository struct {
	db *sql.DB
}

const (
	getCartQuery = `SELECT items FROM carts WHERE user_id = $1`

	upsertCartQuery = `
		INSERT INTO carts (user_id, items, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET items = $2, updated_at = $3
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Items(userID int) (map[int]int, error) {
	var raw []byte
	if err := r.db.QueryRow(getCartQuery, userID).Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			// no cart yet; created lazily on first write
			return map[int]int{}, nil
		}
		return nil, err
	}

	// JSONB object keys are strings
	var m map[string]int
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}

	items := make(map[int]int, len(m))
	for k, qty := range m {
		pid, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		items[pid] = qty
	}
	return items, nil
}

func (r *PostgresRepository) Save(userID int, items map[int]int) error {
	m := make(map[string]int, len(items))
	for pid, qty := range items {
		m[strconv.Itoa(pid)] = qty
	}

	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(upsertCartQuery, userID, raw, time.Now().UTC().Format(time.RFC3339))
	return err
}

func (r *PostgresRepository) Clear(userID int) error {
	return r.Save(userID, map[int]int{})
}
