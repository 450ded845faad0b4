// internal/service/space/messages.go

package space

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"unispace/internal/domain/identity"
	domain "unispace/internal/domain/space"
	"unispace/internal/replica"
)

// MessageLog appends messages to a space's replica-local log. No
// remote call is made; the log is visible only on this device.
type MessageLog struct {
	store     *replica.Store
	ident     identity.Provider
	snapshots SnapshotStore
	log       zerolog.Logger

	mu     sync.Mutex
	lastID int64
}

// NewMessageLog creates a message log over the replica. snapshots may
// be nil; logs then live for the process only.
func NewMessageLog(store *replica.Store, ident identity.Provider, snapshots SnapshotStore, log zerolog.Logger) *MessageLog {
	return &MessageLog{
		store:     store,
		ident:     ident,
		snapshots: snapshots,
		log:       log,
	}
}

// Append adds a message authored by the current user to the space's
// log. The text must be non-empty after trimming and the caller must
// be a participant. Ids are timestamp-derived and strictly increasing,
// so append order is also timestamp order.
func (l *MessageLog) Append(ctx context.Context, spaceID, text string) (domain.Message, error) {
	user, ok := l.ident.CurrentUser()
	if !ok {
		return domain.Message{}, domain.ErrUnauthenticated
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Message{}, domain.ErrEmptyMessage
	}

	msg := domain.Message{
		ID:               l.nextID(),
		Text:             text,
		AuthorID:         user.ID,
		AuthorName:       user.Name,
		AuthorUniversity: user.University,
		Timestamp:        time.Now().UTC(),
	}

	err := l.store.Update(spaceID, func(sp *domain.Space) error {
		if !sp.HasParticipant(user.ID) {
			return domain.ErrNotParticipant
		}
		sp.Messages = append(sp.Messages, msg)
		return nil
	})
	if err != nil {
		return domain.Message{}, err
	}

	messagesAppendedTotal.Inc()
	persistSnapshot(l.snapshots, l.store, l.log)

	return msg, nil
}

// Messages returns the space's log in append order.
func (l *MessageLog) Messages(spaceID string) ([]domain.Message, error) {
	sp, ok := l.store.Get(spaceID)
	if !ok {
		return nil, domain.ErrSpaceNotFound
	}
	if sp.Messages == nil {
		return []domain.Message{}, nil
	}
	return sp.Messages, nil
}

// Persisted reports whether appended messages survive the process.
// They do only best-effort, via the local snapshot blob; there is no
// remote persistence in any case.
func (l *MessageLog) Persisted() bool {
	return l.snapshots != nil
}

// nextID derives an id from the current time, bumped past the previous
// id when two appends land in the same nanosecond.
func (l *MessageLog) nextID() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := time.Now().UnixNano()
	if id <= l.lastID {
		id = l.lastID + 1
	}
	l.lastID = id
	return strconv.FormatInt(id, 10)
}
