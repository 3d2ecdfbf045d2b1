package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"ManuscriptTracker/internal/domain"
	"ManuscriptTracker/internal/ports"
)

// PostgresRepository persists referee state snapshots into Postgres.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.SnapshotRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// KnownStates returns a map with the snapshot keys that already exist.
func (r *PostgresRepository) KnownStates(ctx context.Context, keys []string) (map[string]bool, error) {
	if r.db == nil || len(keys) == 0 {
		return map[string]bool{}, nil
	}

	query, args, err := r.knownStatesQuery(keys).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build known-states query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query known states: %w", err)
	}
	defer rows.Close()

	result := make(map[string]bool)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan state key: %w", err)
		}
		result[key] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return result, nil
}

// SaveSnapshot upserts the latest observed referee state.
func (r *PostgresRepository) SaveSnapshot(ctx context.Context, snapshot domain.RefereeSnapshot) error {
	if r.db == nil {
		return nil
	}

	query, args, err := r.saveSnapshotQuery(snapshot).ToSql()
	if err != nil {
		return fmt.Errorf("build snapshot upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert snapshot %s: %w", snapshot.Key(), err)
	}

	return nil
}

func (r *PostgresRepository) knownStatesQuery(keys []string) sq.SelectBuilder {
	return r.builder.
		Select("state_key").
		From("referee_snapshots").
		Where(sq.Expr("state_key = ANY(?)", pq.StringArray(keys)))
}

func (r *PostgresRepository) saveSnapshotQuery(s domain.RefereeSnapshot) sq.InsertBuilder {
	return r.builder.
		Insert("referee_snapshots").
		Columns("state_key", "journal", "manuscript_id", "referee_name",
			"status", "status_detail", "due_date", "seen_at").
		Values(s.Key(), s.Journal, s.ManuscriptID, s.RefereeName,
			string(s.Status), s.StatusDetail, s.DueDate, s.SeenAt).
		Suffix(`ON CONFLICT (state_key) DO UPDATE
            SET status_detail = EXCLUDED.status_detail,
                due_date = EXCLUDED.due_date,
                seen_at = EXCLUDED.seen_at`)
}
