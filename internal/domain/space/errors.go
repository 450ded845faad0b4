// internal/domain/space/errors.go

package space

import "errors"

// ErrUnauthenticated is returned by every mutating operation when no
// identity is available. It is never swallowed.
var ErrUnauthenticated = errors.New("no authenticated user")

// ErrSpaceNotFound is returned when the target space is not in the
// replica.
var ErrSpaceNotFound = errors.New("space not found")

// ErrSpaceExists is returned on an id collision within the replica.
var ErrSpaceExists = errors.New("space already exists")

// ErrNotParticipant is returned when a sender tries to append to a
// space they have not joined.
var ErrNotParticipant = errors.New("user is not a participant of this space")

// ErrEmptyMessage is returned when a message is blank after trimming.
var ErrEmptyMessage = errors.New("message text is empty")
