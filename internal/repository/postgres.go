package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/activity-board/config"
	"github.com/Shivanand-hulikatti/activity-board/internal/database"
	"github.com/Shivanand-hulikatti/activity-board/internal/model"
)

const uniqueViolation = "23505"

// PostgresStore persists activities in PostgreSQL using pgx directly (no ORM).
type PostgresStore struct {
	db  *pgxpool.Pool
	log *zap.SugaredLogger
}

// NewPostgresStore opens a connection pool, waiting for the database to come
// up, and then migrates the schema.
func NewPostgresStore(ctx context.Context, cfg config.PostgresConfig, log *zap.SugaredLogger) (*PostgresStore, error) {
	log = log.Named("repo.postgres")

	pool, err := database.NewPool(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, cfg, log); err != nil {
		pool.Close()
		return nil, err
	}

	log.Infow("postgres ready", "host", cfg.Host, "port", cfg.Port)
	return &PostgresStore{db: pool, log: log}, nil
}

// List returns all activities in creation order, participants in signup order.
func (p *PostgresStore) List(ctx context.Context) (model.Snapshot, error) {
	rows, err := p.db.Query(ctx,
		`SELECT a.name, a.description, a.schedule, a.max_participants,
		        COALESCE(array_agg(pt.email ORDER BY pt.seq) FILTER (WHERE pt.email IS NOT NULL), '{}')
		 FROM activities a
		 LEFT JOIN participants pt ON pt.activity_id = a.id
		 GROUP BY a.id
		 ORDER BY a.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	snap := model.Snapshot{}
	for rows.Next() {
		var na model.NamedActivity
		if err := rows.Scan(&na.Name, &na.Description, &na.Schedule, &na.MaxParticipants, &na.Participants); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		snap = append(snap, na)
	}
	return snap, rows.Err()
}

// AddParticipant performs a concurrency-safe signup inside a transaction.
//
// The activity row is locked with SELECT ... FOR UPDATE so concurrent signups
// for the same activity serialise on the capacity check; without the lock two
// transactions could both see a free spot and overbook it.
func (p *PostgresStore) AddParticipant(ctx context.Context, activity, email string) (err error) {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var activityID int64
	var capacity int
	err = tx.QueryRow(ctx,
		`SELECT id, max_participants FROM activities WHERE name = $1 FOR UPDATE`,
		activity,
	).Scan(&activityID, &capacity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("lock activity row: %w", err)
	}

	var registered bool
	var count int
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(bool_or(email = $2), false), COUNT(*)
		 FROM participants WHERE activity_id = $1`,
		activityID, email,
	).Scan(&registered, &count)
	if err != nil {
		return fmt.Errorf("count participants: %w", err)
	}
	if registered {
		return ErrAlreadyRegistered
	}
	if count >= capacity {
		return ErrActivityFull
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO participants (id, activity_id, email) VALUES ($1, $2, $3)`,
		uuid.New(), activityID, email,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrAlreadyRegistered
		}
		return fmt.Errorf("insert participant: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RemoveParticipant deletes a registration.
func (p *PostgresStore) RemoveParticipant(ctx context.Context, activity, email string) error {
	var activityID int64
	err := p.db.QueryRow(ctx, `SELECT id FROM activities WHERE name = $1`, activity).Scan(&activityID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("get activity: %w", err)
	}

	tag, err := p.db.Exec(ctx,
		`DELETE FROM participants WHERE activity_id = $1 AND email = $2`,
		activityID, email,
	)
	if err != nil {
		return fmt.Errorf("delete participant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrParticipantNotFound
	}
	return nil
}

// SeedIfEmpty inserts seed when the activities table has no rows.
func (p *PostgresStore) SeedIfEmpty(ctx context.Context, seed model.Snapshot) (err error) {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	// Serialises concurrent seeders on an empty database.
	if _, err = tx.Exec(ctx, `LOCK TABLE activities IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return fmt.Errorf("lock activities: %w", err)
	}

	var exists bool
	if err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM activities)`).Scan(&exists); err != nil {
		return fmt.Errorf("check activities: %w", err)
	}
	if exists {
		return tx.Commit(ctx)
	}

	for _, na := range seed {
		var id int64
		err = tx.QueryRow(ctx,
			`INSERT INTO activities (name, description, schedule, max_participants)
			 VALUES ($1, $2, $3, $4) RETURNING id`,
			na.Name, na.Description, na.Schedule, na.MaxParticipants,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert activity %q: %w", na.Name, err)
		}
		for _, email := range na.Participants {
			if _, err = tx.Exec(ctx,
				`INSERT INTO participants (id, activity_id, email) VALUES ($1, $2, $3)`,
				uuid.New(), id, email,
			); err != nil {
				return fmt.Errorf("insert participant %q: %w", email, err)
			}
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	p.log.Infow("seeded activities", "count", len(seed))
	return nil
}

// Close closes pool connections.
func (p *PostgresStore) Close() {
	if p.db != nil {
		p.db.Close()
	}
}
