package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/neexbeast/itinerary/internal/destination"
	"github.com/neexbeast/itinerary/internal/itinerary"
)

// Querier abstracts the subset of pgxpool.Pool used by Repository.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Snapshot is one saved copy of an itinerary.
type Snapshot struct {
	ID           uuid.UUID
	Records      []destination.Record
	Destinations int
	CreatedAt    time.Time
}

// Repository stores itinerary snapshots in PostgreSQL.
type Repository struct {
	q     Querier
	newID func() uuid.UUID
}

// NewRepository constructs a Repository backed by the given pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{q: pool, newID: uuid.New}
}

// NewRepositoryWithQuerier constructs a Repository with a custom Querier (for tests).
func NewRepositoryWithQuerier(q Querier) *Repository {
	return &Repository{q: q, newID: uuid.New}
}

// SaveSnapshot inserts records as a new snapshot and returns its ID.
func (r *Repository) SaveSnapshot(ctx context.Context, records []destination.Record) (uuid.UUID, error) {
	if records == nil {
		records = []destination.Record{}
	}

	recordsJSON, err := json.Marshal(records)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshaling itinerary records: %w", err)
	}

	const q = `
		INSERT INTO itinerary_snapshots (id, records, destinations, created_at)
		VALUES ($1, $2, $3, NOW())
	`

	id := r.newID()
	if _, err := r.q.Exec(ctx, q, id, recordsJSON, len(records)); err != nil {
		return uuid.Nil, fmt.Errorf("inserting itinerary snapshot %s: %w", id, err)
	}

	return id, nil
}

// LatestSnapshot returns the most recently saved snapshot.
// Returns nil, nil when no snapshot exists.
func (r *Repository) LatestSnapshot(ctx context.Context) (*Snapshot, error) {
	const q = `
		SELECT id, records, destinations, created_at
		FROM itinerary_snapshots
		ORDER BY created_at DESC
		LIMIT 1
	`

	var s Snapshot
	var recordsJSON []byte

	err := r.q.QueryRow(ctx, q).Scan(&s.ID, &recordsJSON, &s.Destinations, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying latest itinerary snapshot: %w", err)
	}

	if err := json.Unmarshal(recordsJSON, &s.Records); err != nil {
		return nil, fmt.Errorf("unmarshaling snapshot %s: %w", s.ID, err)
	}

	return &s, nil
}

// ListSnapshots returns up to limit snapshots, newest first, without their records.
func (r *Repository) ListSnapshots(ctx context.Context, limit int) ([]Snapshot, error) {
	const q = `
		SELECT id, destinations, created_at
		FROM itinerary_snapshots
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("querying itinerary snapshots: %w", err)
	}
	defer rows.Close()

	var results []Snapshot
	for rows.Next() {
		var s Snapshot
		if err := rows.Scan(&s.ID, &s.Destinations, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning snapshot row: %w", err)
		}
		results = append(results, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshot rows: %w", err)
	}

	return results, nil
}

// SnapshotStore adapts Repository to itinerary.Store.
type SnapshotStore struct {
	repo *Repository
}

var _ itinerary.Store = (*SnapshotStore)(nil)

// NewSnapshotStore wraps repo as an itinerary.Store.
func NewSnapshotStore(repo *Repository) *SnapshotStore {
	return &SnapshotStore{repo: repo}
}

// Save stores records as a new snapshot.
func (s *SnapshotStore) Save(ctx context.Context, records []destination.Record) error {
	_, err := s.repo.SaveSnapshot(ctx, records)
	return err
}

// Load returns the latest snapshot's records, or itinerary.ErrNoFile when
// nothing has been saved.
func (s *SnapshotStore) Load(ctx context.Context) ([]destination.Record, error) {
	snap, err := s.repo.LatestSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, fmt.Errorf("%w in database", itinerary.ErrNoFile)
	}
	return snap.Records, nil
}
