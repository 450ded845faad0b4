// internal/adapter/storage/space_store.go

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"unispace/internal/domain/space"
)

// snapshotVersion is bumped when the persisted blob layout changes.
const snapshotVersion = 1

// SnapshotStore persists the replica as a versioned JSON blob keyed by
// a stable namespace. One row per namespace; each save overwrites the
// previous blob.
type SnapshotStore struct {
	db        *pgxpool.Pool
	namespace string
}

// NewSnapshotStore creates a snapshot store scoped to a namespace.
func NewSnapshotStore(db *pgxpool.Pool, namespace string) *SnapshotStore {
	return &SnapshotStore{
		db:        db,
		namespace: namespace,
	}
}

type snapshotBlob struct {
	Version int           `json:"version"`
	Spaces  []space.Space `json:"spaces"`
	SavedAt time.Time     `json:"savedAt"`
}

// Save stores the full space collection for this namespace.
func (s *SnapshotStore) Save(ctx context.Context, spaces []space.Space) error {
	blob, err := json.Marshal(snapshotBlob{
		Version: snapshotVersion,
		Spaces:  spaces,
		SavedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("error marshaling replica snapshot: %w", err)
	}

	query := `
		INSERT INTO replica_snapshots (namespace, version, data, saved_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (namespace) DO UPDATE
		SET
			version = $2,
			data = $3,
			saved_at = now()
	`

	if _, err := s.db.Exec(ctx, query, s.namespace, snapshotVersion, blob); err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}

// Load returns the last stored collection, or an empty slice when
// nothing was persisted yet or the blob carries an unknown version.
func (s *SnapshotStore) Load(ctx context.Context) ([]space.Space, error) {
	query := `SELECT data FROM replica_snapshots WHERE namespace = $1`

	var data []byte
	err := s.db.QueryRow(ctx, query, s.namespace).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return []space.Space{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying snapshot: %w", err)
	}

	var blob snapshotBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return nil, fmt.Errorf("error unmarshaling replica snapshot: %w", err)
	}
	if blob.Version != snapshotVersion {
		return []space.Space{}, nil
	}

	return blob.Spaces, nil
}
