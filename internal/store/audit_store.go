package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/DPlauder/meisterplan/internal/domain"
	"github.com/DPlauder/meisterplan/internal/observe"
)

const defaultAuditLimit = 500

// AuditFilter narrows List. Zero fields match everything.
type AuditFilter struct {
	Entity string
	Key    string
	Limit  int
}

// AuditStore persists gateway operations reported by the services.
type AuditStore struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

func NewAuditStore(db *sql.DB, logger *slog.Logger) *AuditStore {
	return &AuditStore{db: db, logger: logger, now: time.Now}
}

func (s *AuditStore) Record(ctx context.Context, ev observe.Event) (*domain.AuditEvent, error) {
	rec := domain.AuditEvent{
		Op:         ev.Op,
		Entity:     ev.Entity,
		Key:        ev.Key,
		OK:         ev.OK(),
		DurationMS: ev.Duration.Milliseconds(),
		CreatedAt:  s.now().UTC(),
	}
	if ev.Err != nil {
		rec.Error = ev.Err.Error()
	}

	query, args, err := sq.Insert("audit_events").
		Columns("op", "entity", "entity_key", "ok", "error", "duration_ms", "created_at").
		Values(rec.Op, rec.Entity, rec.Key, rec.OK, rec.Error, rec.DurationMS, rec.CreatedAt).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to record audit event: %w", err)
	}

	rec.ID, err = result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}
	return &rec, nil
}

// Observe records ev and logs instead of failing the caller's operation.
func (s *AuditStore) Observe(ctx context.Context, ev observe.Event) {
	// The request may already be cancelled; the record should still land.
	if _, err := s.Record(context.WithoutCancel(ctx), ev); err != nil {
		s.logger.Error("failed to record audit event", "op", ev.Op, "entity", ev.Entity, "error", err)
	}
}

// List returns matching events, newest first.
func (s *AuditStore) List(ctx context.Context, f AuditFilter) ([]domain.AuditEvent, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultAuditLimit
	}

	qb := sq.Select("id", "op", "entity", "entity_key", "ok", "error", "duration_ms", "created_at").
		From("audit_events").
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit))
	if f.Entity != "" {
		qb = qb.Where(sq.Eq{"entity": f.Entity})
	}
	if f.Key != "" {
		qb = qb.Where(sq.Eq{"entity_key": f.Key})
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit events: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.Error("failed to close rows", "error", err)
		}
	}()

	var events []domain.AuditEvent
	for rows.Next() {
		var ev domain.AuditEvent
		if err := rows.Scan(&ev.ID, &ev.Op, &ev.Entity, &ev.Key, &ev.OK, &ev.Error, &ev.DurationMS, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit event: %w", err)
		}
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit events: %w", err)
	}

	return events, nil
}

// Prune deletes events older than cutoff and returns how many were removed.
func (s *AuditStore) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	query, args, err := sq.Delete("audit_events").
		Where(sq.Lt{"created_at": cutoff.UTC()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build delete: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to prune audit events: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}
