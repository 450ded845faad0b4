// internal/service/space/engine.go

package space

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"unispace/internal/domain/directory"
	"unispace/internal/domain/identity"
	"unispace/internal/domain/remote"
	domain "unispace/internal/domain/space"
	"unispace/internal/replica"
)

// SnapshotStore persists the replica as a versioned blob so a restart
// does not begin from an empty cache. Persistence is best-effort: a
// save failure never fails the mutation that triggered it.
type SnapshotStore interface {
	// Save stores the full space collection.
	Save(ctx context.Context, spaces []domain.Space) error

	// Load returns the last stored collection, or an empty slice when
	// nothing was persisted yet.
	Load(ctx context.Context) ([]domain.Space, error)
}

// SyncConfig contains configuration for the sync engine.
type SyncConfig struct {
	EventsTopic     string
	RemoteTimeout   time.Duration
	RefreshInterval time.Duration
}

// SyncEngine reconciles the local replica against the remote gateway.
// A refresh always terminates in a valid replica state; transport
// errors are swallowed here and recovered via the seed dataset or the
// existing (stale) replica.
type SyncEngine struct {
	store     *replica.Store
	gateway   remote.Gateway
	directory directory.Directory
	ident     identity.Provider
	snapshots SnapshotStore
	events    *eventPublisher
	config    SyncConfig
	log       zerolog.Logger

	gen    atomic.Uint64
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSyncEngine creates a sync engine. snapshots and eventBus may be
// nil; persistence and event publication are then disabled.
func NewSyncEngine(
	store *replica.Store,
	gateway remote.Gateway,
	dir directory.Directory,
	ident identity.Provider,
	snapshots SnapshotStore,
	eventBus *nats.Conn,
	config SyncConfig,
	log zerolog.Logger,
) *SyncEngine {
	ctx, cancel := context.WithCancel(context.Background())

	return &SyncEngine{
		store:     store,
		gateway:   gateway,
		directory: dir,
		ident:     ident,
		snapshots: snapshots,
		events:    newEventPublisher(eventBus, config.EventsTopic, log),
		config:    config,
		log:       log,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Restore loads the persisted replica blob into an empty store. It is
// called once on startup, before the first refresh.
func (e *SyncEngine) Restore(ctx context.Context) error {
	if e.snapshots == nil {
		return nil
	}
	spaces, err := e.snapshots.Load(ctx)
	if err != nil {
		return err
	}
	if len(spaces) == 0 {
		return nil
	}
	if e.store.SeedIfEmpty(spaces) {
		e.log.Info().Int("spaces", len(spaces)).Msg("restored replica from persisted snapshot")
	}
	return nil
}

// Refresh pulls the full space list from the remote, translates it,
// and replaces the replica. It never returns an error: on failure the
// caller still gets a valid snapshot, seeded when the replica was
// empty. A refresh superseded by a newer one discards its result.
func (e *SyncEngine) Refresh(ctx context.Context) domain.Snapshot {
	gen := e.gen.Add(1)

	rctx, cancel := context.WithTimeout(ctx, e.config.RemoteTimeout)
	defer cancel()

	records, err := e.gateway.ListSpaces(rctx)
	if err != nil {
		e.log.Warn().Err(err).Msg("remote unavailable, falling back")
		e.fallback()
		return e.Snapshot()
	}

	if len(records) == 0 {
		e.fallback()
		return e.Snapshot()
	}

	spaces := make([]domain.Space, 0, len(records))
	for _, rec := range records {
		spaces = append(spaces, translateRecord(rec, e.directory, e.log))
	}

	if !e.store.ReplaceIfNewer(gen, spaces) {
		discardedRefreshesTotal.Inc()
		e.log.Debug().Uint64("gen", gen).Msg("refresh superseded, result discarded")
		return e.Snapshot()
	}

	refreshesTotal.WithLabelValues(outcomeRemote).Inc()
	persistSnapshot(e.snapshots, e.store, e.log)
	e.events.publish("refreshed", refreshEvent{Spaces: len(spaces), Source: outcomeRemote})
	e.log.Info().Int("spaces", len(spaces)).Msg("replica refreshed from remote")

	return e.Snapshot()
}

// Snapshot returns the current replica view: all spaces plus the
// joined-id set derived for the current user. With no identity the
// joined set is empty.
func (e *SyncEngine) Snapshot() domain.Snapshot {
	var userID string
	if user, ok := e.ident.CurrentUser(); ok {
		userID = user.ID
	}
	return domain.Snapshot{
		Spaces:    e.store.List(),
		JoinedIDs: e.store.JoinedIDs(userID),
	}
}

// Start begins periodic background refreshes. A zero interval
// disables them.
func (e *SyncEngine) Start() {
	if e.config.RefreshInterval <= 0 {
		return
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()

		ticker := time.NewTicker(e.config.RefreshInterval)
		defer ticker.Stop()

		for {
			select {
			case <-e.ctx.Done():
				return
			case <-ticker.C:
				e.Refresh(e.ctx)
			}
		}
	}()
}

// Stop gracefully stops background refreshes.
func (e *SyncEngine) Stop(ctx context.Context) error {
	e.cancel()

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// fallback covers a failed or empty remote fetch: an empty replica is
// populated from the seed dataset, a non-empty one is left as is.
func (e *SyncEngine) fallback() {
	if e.store.SeedIfEmpty(seedSpaces()) {
		seedFallbacksTotal.Inc()
		refreshesTotal.WithLabelValues(outcomeFallbackSeed).Inc()
		e.log.Info().Msg("replica seeded from fallback dataset")
		return
	}
	refreshesTotal.WithLabelValues(outcomeFallbackStale).Inc()
}
