// internal/service/space/persist.go

package space

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"unispace/internal/replica"
)

// persistSnapshot saves the replica blob best-effort after a local
// mutation. It runs on its own deadline so a cancelled request cannot
// skip a save, and a failure is logged, never surfaced.
func persistSnapshot(snapshots SnapshotStore, store *replica.Store, log zerolog.Logger) {
	if snapshots == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := snapshots.Save(ctx, store.List()); err != nil {
		log.Error().Err(err).Msg("persist replica snapshot")
	}
}
