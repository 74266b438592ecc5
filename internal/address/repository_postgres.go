package address

import "database/sql"

// Postgres repository for addresses.
// Table layout:
//   address_id serial primary key,
//   user_id int not null,
//   full_name, phone, address_line1, address_line2, landmark,
//   city, state, pincode, country text,
//   is_default boolean,
//   created_at, updated_at text

type PostgresRepository struct {
	db *sql.DB
}

const (
	addressColumns = `address_id, user_id, full_name, phone, address_line1, address_line2, landmark, city, state, pincode, country, is_default, created_at, updated_at`

	listAddressesQuery = `SELECT ` + addressColumns + ` FROM address WHERE user_id = $1 ORDER BY address_id`
	getAddressQuery    = `SELECT ` + addressColumns + ` FROM address WHERE address_id = $1`

	insertAddressQuery = `
		INSERT INTO address (user_id, full_name, phone, address_line1, address_line2, landmark, city, state, pincode, country, is_default, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING ` + addressColumns + `
	`
	updateAddressQuery = `
		UPDATE address
		SET full_name=$3, phone=$4, address_line1=$5, address_line2=$6, landmark=$7, city=$8, state=$9, pincode=$10, country=$11, is_default=$12, updated_at=$13
		WHERE user_id=$1 AND address_id=$2
		RETURNING ` + addressColumns + `
	`
	deleteAddressQuery = `DELETE FROM address WHERE user_id=$1 AND address_id=$2`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAddress(row rowScanner) (Address, error) {
	var a Address
	err := row.Scan(&a.AddressID, &a.UserID, &a.FullName, &a.Phone, &a.AddressLine1, &a.AddressLine2, &a.Landmark, &a.City, &a.State, &a.Pincode, &a.Country, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (r *PostgresRepository) ListByUser(userID int) ([]Address, error) {
	rows, err := r.db.Query(listAddressesQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Address, 0)
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(addressID int) (Address, error) {
	a, err := scanAddress(r.db.QueryRow(getAddressQuery, addressID))
	if err != nil {
		if err == sql.ErrNoRows {
			return Address{}, ErrNotFound
		}
		return Address{}, err
	}
	return a, nil
}

func (r *PostgresRepository) Create(a Address) (Address, error) {
	created, err := scanAddress(r.db.QueryRow(
		insertAddressQuery,
		a.UserID, a.FullName, a.Phone, a.AddressLine1, a.AddressLine2, a.Landmark, a.City, a.State, a.Pincode, a.Country, a.IsDefault, a.CreatedAt, a.UpdatedAt,
	))
	if err != nil {
		return Address{}, err
	}
	return created, nil
}

func (r *PostgresRepository) Update(userID, addressID int, a Address) (Address, error) {
	updated, err := scanAddress(r.db.QueryRow(
		updateAddressQuery,
		userID, addressID, a.FullName, a.Phone, a.AddressLine1, a.AddressLine2, a.Landmark, a.City, a.State, a.Pincode, a.Country, a.IsDefault, a.UpdatedAt,
	))
	if err != nil {
		if err == sql.ErrNoRows {
			return Address{}, ErrNotFound
		}
		return Address{}, err
	}
	return updated, nil
}

func (r *PostgresRepository) Delete(userID, addressID int) error {
	result, err := r.db.Exec(deleteAddressQuery, userID, addressID)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
