// internal/domain/space/model.go

package space

import (
	"time"
)

// IDState tracks which id space a Space's id belongs to. Locally
// created spaces carry a generated id until the remote assigns the
// canonical one; the two are never silently aliased.
type IDState string

const (
	// IDPending means the id was generated on this device and a remote
	// id has not been confirmed yet.
	IDPending IDState = "pending"

	// IDConfirmed means the id is the remote-assigned canonical id.
	IDConfirmed IDState = "confirmed"
)

// Space is a collaboration space in the local replica.
type Space struct {
	ID           string    `json:"id"`
	IDState      IDState   `json:"idState"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	CreatorID    string    `json:"creatorId"`
	Universities []string  `json:"universities"`
	Tags         []string  `json:"tags"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	Members      int       `json:"members"`
	Participants []string  `json:"participants"`
	Messages     []Message `json:"messages"`
}

// Message is a single entry in a space's discussion log. Author fields
// are a snapshot of the sender's identity at send time.
type Message struct {
	ID               string    `json:"id"`
	Text             string    `json:"text"`
	AuthorID         string    `json:"authorId"`
	AuthorName       string    `json:"authorName"`
	AuthorUniversity string    `json:"authorUniversity"`
	Timestamp        time.Time `json:"timestamp"`
}

// Age returns how long ago the message was sent, for relative-time
// display.
func (m Message) Age(now time.Time) time.Duration {
	return now.Sub(m.Timestamp)
}

// HasParticipant reports whether userID is currently joined.
func (s *Space) HasParticipant(userID string) bool {
	for _, id := range s.Participants {
		if id == userID {
			return true
		}
	}
	return false
}

// AddParticipant adds userID to the participant set. It reports
// whether the set changed; duplicates are never inserted.
func (s *Space) AddParticipant(userID string) bool {
	if s.HasParticipant(userID) {
		return false
	}
	s.Participants = append(s.Participants, userID)
	return true
}

// RemoveParticipant removes userID from the participant set and
// reports whether it was present.
func (s *Space) RemoveParticipant(userID string) bool {
	for i, id := range s.Participants {
		if id == userID {
			s.Participants = append(s.Participants[:i], s.Participants[i+1:]...)
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can hand out spaces without
// sharing the replica's backing slices.
func (s *Space) Clone() Space {
	out := *s
	if s.Universities != nil {
		out.Universities = append([]string(nil), s.Universities...)
	}
	if s.Tags != nil {
		out.Tags = append([]string(nil), s.Tags...)
	}
	if s.Participants != nil {
		out.Participants = append([]string(nil), s.Participants...)
	}
	if s.Messages != nil {
		out.Messages = append([]Message(nil), s.Messages...)
	}
	return out
}

// Snapshot is the read view handed to consumers after a refresh: the
// full space collection plus the joined-id set derived for the
// current user.
type Snapshot struct {
	Spaces    []Space  `json:"spaces"`
	JoinedIDs []string `json:"joinedIds"`
}
