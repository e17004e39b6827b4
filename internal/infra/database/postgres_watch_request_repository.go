package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"visa_slot_watcher/internal/domain/watchrequest"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Custom errors
var ErrWatchRequestNotFound = fmt.Errorf("watch request not found")
var ErrDuplicateUniqueID = fmt.Errorf("watch request with this unique id already exists")

const uniqueViolation = "23505"

const selectWatchRequest = `SELECT id, email, secret_hash, unique_id, first_name, last_name, appointment_type,
       target_month_year, target_day_start, target_day_end, last_checked
FROM watch_requests`

type PostgresWatchRequestRepository struct {
	db *sqlx.DB
}

func NewPostgresWatchRequestRepository(db *sqlx.DB) *PostgresWatchRequestRepository {
	return &PostgresWatchRequestRepository{db: db}
}

func (r *PostgresWatchRequestRepository) Create(ctx context.Context, req *watchrequest.WatchRequest) error {
	query := `INSERT INTO watch_requests (email, secret_hash, unique_id, first_name, last_name, appointment_type,
                                     target_month_year, target_day_start, target_day_end, last_checked)
              VALUES (:email, :secret_hash, :unique_id, :first_name, :last_name, :appointment_type,
                      :target_month_year, :target_day_start, :target_day_end, :last_checked)
              RETURNING id`

	rows, err := r.db.NamedQueryContext(ctx, query, req)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicateUniqueID
		}
		return fmt.Errorf("error creating watch request: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&req.ID); err != nil {
			return fmt.Errorf("error reading created watch request id: %w", err)
		}
	}
	return rows.Err()
}

func (r *PostgresWatchRequestRepository) GetByID(ctx context.Context, id int64) (*watchrequest.WatchRequest, error) {
	req := &watchrequest.WatchRequest{}
	err := r.db.GetContext(ctx, req, selectWatchRequest+` WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrWatchRequestNotFound
		}
		return nil, fmt.Errorf("error getting watch request by ID: %w", err)
	}
	return req, nil
}

func (r *PostgresWatchRequestRepository) GetByUniqueID(ctx context.Context, uniqueID string) (*watchrequest.WatchRequest, error) {
	req := &watchrequest.WatchRequest{}
	err := r.db.GetContext(ctx, req, selectWatchRequest+` WHERE unique_id = $1`, uniqueID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrWatchRequestNotFound
		}
		return nil, fmt.Errorf("error getting watch request by unique ID: %w", err)
	}
	return req, nil
}

func (r *PostgresWatchRequestRepository) ListAll(ctx context.Context) ([]*watchrequest.WatchRequest, error) {
	reqs := make([]*watchrequest.WatchRequest, 0)
	if err := r.db.SelectContext(ctx, &reqs, selectWatchRequest+` ORDER BY id`); err != nil {
		return nil, fmt.Errorf("error listing watch requests: %w", err)
	}
	return reqs, nil
}

func (r *PostgresWatchRequestRepository) Delete(ctx context.Context, id int64) error {
	return r.deleteWhere(ctx, `DELETE FROM watch_requests WHERE id = $1`, id)
}

func (r *PostgresWatchRequestRepository) DeleteByUniqueID(ctx context.Context, uniqueID string) error {
	return r.deleteWhere(ctx, `DELETE FROM watch_requests WHERE unique_id = $1`, uniqueID)
}

func (r *PostgresWatchRequestRepository) deleteWhere(ctx context.Context, query string, arg any) error {
	res, err := r.db.ExecContext(ctx, query, arg)
	if err != nil {
		return fmt.Errorf("error deleting watch request: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading deleted rows: %w", err)
	}
	if n == 0 {
		return ErrWatchRequestNotFound
	}
	return nil
}
