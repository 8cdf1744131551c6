package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mlevasseur/stationnement/internal/domain"
)

type SessionRepository interface {
	CreateActive(ctx context.Context, session *domain.Session) error
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	FindActiveByVehicle(ctx context.Context, vehicleID int64) (*domain.Session, error)
	RecordDeparture(ctx context.Context, id string, departedAt time.Time, cost domain.Cents) (*domain.Session, error)
	SaveCost(ctx context.Context, id string, cost domain.Cents) error
	ListByUser(ctx context.Context, userID int64) ([]domain.Session, error)
	ListOverdueUnnotified(ctx context.Context, zoneID domain.ZoneID, startedBefore time.Time) ([]domain.Session, error)
	MarkExpiryNotified(ctx context.Context, id string) error
	CountActiveByFacility(ctx context.Context) (map[int64]int, error)
}

type PGSessionRepository struct {
	db *pgxpool.Pool
}

func NewSessionRepository(db *pgxpool.Pool) SessionRepository {
	return &PGSessionRepository{db: db}
}

const sessionColumns = `id, vehicle_id, kind, zone_id, facility_id, planned_minutes, arrived_at, departed_at, cost_cents, status, created_at, updated_at`

func scanSession(row pgx.Row) (*domain.Session, error) {
	var (
		s              domain.Session
		plannedMinutes int
		arrivedAt      *time.Time
	)
	if err := row.Scan(&s.ID, &s.VehicleID, &s.Kind, &s.ZoneID, &s.FacilityID, &plannedMinutes, &arrivedAt, &s.DepartedAt, &s.CostCents, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.PlannedDuration = time.Duration(plannedMinutes) * time.Minute
	if arrivedAt != nil {
		s.ArrivedAt = *arrivedAt
	}
	return &s, nil
}

// CreateActive inserts the session only if the vehicle has no active
// session. The check and the insert run as one statement, backed by a
// partial unique index on (vehicle_id) WHERE status = 'ACTIVE', so two
// concurrent starts cannot both succeed.
func (r *PGSessionRepository) CreateActive(ctx context.Context, session *domain.Session) error {
	var arrivedAt *time.Time
	if session.Kind == domain.SessionKindOffStreet {
		arrivedAt = &session.ArrivedAt
	}

	row := r.db.QueryRow(ctx, `INSERT INTO sessions (id, vehicle_id, kind, zone_id, facility_id, planned_minutes, arrived_at, cost_cents, status)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9
		WHERE NOT EXISTS (SELECT 1 FROM sessions WHERE vehicle_id = $2 AND status = 'ACTIVE')
		RETURNING created_at, updated_at`,
		session.ID, session.VehicleID, session.Kind, session.ZoneID, session.FacilityID,
		int(session.PlannedDuration/time.Minute), arrivedAt, session.CostCents, session.Status)
	if err := row.Scan(&session.CreatedAt, &session.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrVehicleAlreadyActive
		}
		return err
	}
	return nil
}

func (r *PGSessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	row := r.db.QueryRow(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id=$1`, id)
	s, err := scanSession(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	return s, err
}

func (r *PGSessionRepository) FindActiveByVehicle(ctx context.Context, vehicleID int64) (*domain.Session, error) {
	row := r.db.QueryRow(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE vehicle_id=$1 AND status='ACTIVE'`, vehicleID)
	s, err := scanSession(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return s, err
}

// RecordDeparture closes the session. The status guard lives in the
// statement so a concurrent close settles on exactly one winner.
func (r *PGSessionRepository) RecordDeparture(ctx context.Context, id string, departedAt time.Time, cost domain.Cents) (*domain.Session, error) {
	row := r.db.QueryRow(ctx, `UPDATE sessions
		SET departed_at=$1, cost_cents=$2, status=$3, updated_at=now()
		WHERE id=$4 AND status='ACTIVE' AND departed_at IS NULL
		RETURNING `+sessionColumns, departedAt, cost, domain.SessionStatusFinished, id)
	s, err := scanSession(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSessionNotActive
	}
	return s, err
}

func (r *PGSessionRepository) SaveCost(ctx context.Context, id string, cost domain.Cents) error {
	_, err := r.db.Exec(ctx, `UPDATE sessions SET cost_cents=$1, updated_at=now() WHERE id=$2`, cost, id)
	return err
}

func (r *PGSessionRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Session, error) {
	rows, err := r.db.Query(ctx, `SELECT s.id, s.vehicle_id, s.kind, s.zone_id, s.facility_id, s.planned_minutes, s.arrived_at, s.departed_at, s.cost_cents, s.status, s.created_at, s.updated_at
		FROM sessions s JOIN vehicles v ON v.id = s.vehicle_id
		WHERE v.user_id=$1 ORDER BY s.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]domain.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

// ListOverdueUnnotified returns active, never-closed sessions of a zone
// whose allotted time ran out before the given instant and that have not
// been notified yet. Status is left untouched: expiry stays a read-time
// derivation and a late close must still land on FINISHED.
func (r *PGSessionRepository) ListOverdueUnnotified(ctx context.Context, zoneID domain.ZoneID, startedBefore time.Time) ([]domain.Session, error) {
	rows, err := r.db.Query(ctx, `SELECT `+sessionColumns+` FROM sessions
		WHERE zone_id=$1 AND status='ACTIVE' AND departed_at IS NULL AND expiry_notified_at IS NULL
		AND COALESCE(arrived_at, created_at) <= $2`, zoneID, startedBefore)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]domain.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

func (r *PGSessionRepository) MarkExpiryNotified(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `UPDATE sessions SET expiry_notified_at=now() WHERE id=$1`, id)
	return err
}

func (r *PGSessionRepository) CountActiveByFacility(ctx context.Context) (map[int64]int, error) {
	rows, err := r.db.Query(ctx, `SELECT facility_id, count(*) FROM sessions
		WHERE kind='PARKING' AND status='ACTIVE' GROUP BY facility_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var (
			facilityID int64
			n          int
		)
		if err := rows.Scan(&facilityID, &n); err != nil {
			return nil, err
		}
		counts[facilityID] = n
	}
	return counts, rows.Err()
}

var _ SessionRepository = (*PGSessionRepository)(nil)
