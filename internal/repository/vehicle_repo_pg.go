package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mlevasseur/stationnement/internal/domain"
)

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *domain.Vehicle) error
	GetByID(ctx context.Context, id int64) (*domain.Vehicle, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Vehicle, error)
	SetPrincipal(ctx context.Context, userID, vehicleID int64) error
	GetUser(ctx context.Context, id int64) (*domain.User, error)
}

type PGVehicleRepository struct {
	db *pgxpool.Pool
}

func NewVehicleRepository(db *pgxpool.Pool) VehicleRepository {
	return &PGVehicleRepository{db: db}
}

// Create inserts the vehicle. A vehicle created as principal demotes the
// user's previous principal in the same transaction, keeping exactly one
// principal vehicle per user.
func (r *PGVehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if vehicle.IsPrincipal {
		if _, err := tx.Exec(ctx, `UPDATE vehicles SET is_principal=false, updated_at=now() WHERE user_id=$1 AND is_principal`, vehicle.UserID); err != nil {
			return err
		}
	}

	if err := tx.QueryRow(ctx, `INSERT INTO vehicles (user_id, plate, model, is_principal)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		vehicle.UserID, vehicle.Plate, vehicle.Model, vehicle.IsPrincipal).
		Scan(&vehicle.ID, &vehicle.CreatedAt, &vehicle.UpdatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGVehicleRepository) GetByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	row := r.db.QueryRow(ctx, `SELECT id, user_id, plate, model, is_principal, created_at, updated_at FROM vehicles WHERE id=$1`, id)
	var v domain.Vehicle
	if err := row.Scan(&v.ID, &v.UserID, &v.Plate, &v.Model, &v.IsPrincipal, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *PGVehicleRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Vehicle, error) {
	rows, err := r.db.Query(ctx, `SELECT id, user_id, plate, model, is_principal, created_at, updated_at FROM vehicles WHERE user_id=$1 ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vehicles := make([]domain.Vehicle, 0)
	for rows.Next() {
		var v domain.Vehicle
		if err := rows.Scan(&v.ID, &v.UserID, &v.Plate, &v.Model, &v.IsPrincipal, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

// SetPrincipal atomically moves the principal flag to the given vehicle.
func (r *PGVehicleRepository) SetPrincipal(ctx context.Context, userID, vehicleID int64) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE vehicles SET is_principal=false, updated_at=now() WHERE user_id=$1 AND is_principal`, userID); err != nil {
		return err
	}

	res, err := tx.Exec(ctx, `UPDATE vehicles SET is_principal=true, updated_at=now() WHERE id=$1 AND user_id=$2`, vehicleID, userID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return errors.New("vehicle not found")
	}

	return tx.Commit(ctx)
}

func (r *PGVehicleRepository) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT id, email, first_name, last_name, created_at FROM users WHERE id=$1`, id)
	var u domain.User
	if err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

var _ VehicleRepository = (*PGVehicleRepository)(nil)
