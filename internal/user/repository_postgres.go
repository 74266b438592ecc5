package user

import "database/sql"

type PostgresRepository struct {
	db *sql.DB
}

const (
	getUserByIDQuery = `
		SELECT user_id, email, password, first_name, last_name, phone, is_admin, created_at, updated_at
		FROM users
		WHERE user_id = $1
	`
	getUserByEmailQuery = `
		SELECT user_id, email, password, first_name, last_name, phone, is_admin, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	insertUserQuery = `
		INSERT INTO users (email, password, first_name, last_name, phone, is_admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING user_id
	`
	updateUserQuery = `
		UPDATE users
		SET first_name = $2, last_name = $3, phone = $4, updated_at = $5
		WHERE user_id = $1
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.Email, &u.Password, &u.FirstName, &u.LastName, &u.Phone, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *PostgresRepository) GetByID(id int) (User, error) {
	u, err := scanUser(r.db.QueryRow(getUserByIDQuery, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (r *PostgresRepository) GetByEmail(email string) (User, error) {
	u, err := scanUser(r.db.QueryRow(getUserByEmailQuery, email))
	if err != nil {
		if err == sql.ErrNoRows {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (r *PostgresRepository) Create(u User) (User, error) {
	var id int
	err := r.db.QueryRow(
		insertUserQuery,
		u.Email, u.Password, u.FirstName, u.LastName, u.Phone, u.IsAdmin, u.CreatedAt, u.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return User{}, err
	}

	u.ID = id
	return u, nil
}

func (r *PostgresRepository) Update(id int, update User) (User, error) {
	result, err := r.db.Exec(updateUserQuery, id, update.FirstName, update.LastName, update.Phone, update.UpdatedAt)
	if err != nil {
		return User{}, err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return User{}, ErrNotFound
	}

	return r.GetByID(id)
}
