// internal/service/space/translate.go

package space

import (
	"github.com/rs/zerolog"

	"unispace/internal/domain/directory"
	"unispace/internal/domain/remote"
	domain "unispace/internal/domain/space"
)

// translateRecord maps a remote-shaped record into the local schema.
// Translation is best-effort: an unresolvable university id becomes a
// placeholder, never an error, and a malformed field never aborts the
// pass. Message logs are not fetched from the remote and always start
// empty.
func translateRecord(rec remote.SpaceRecord, dir directory.Directory, log zerolog.Logger) domain.Space {
	universities := make([]string, 0, len(rec.UniversityIDs))
	for _, uid := range rec.UniversityIDs {
		name, ok := dir.NameOf(uid)
		if !ok {
			name = directory.UnknownUniversity
			translationGapsTotal.Inc()
			log.Debug().Str("universityId", uid).Str("spaceId", rec.ID).
				Msg("unresolvable university id, using placeholder")
		}
		universities = append(universities, name)
	}

	participants := make([]string, 0, len(rec.ParticipantIDs))
	seen := make(map[string]struct{}, len(rec.ParticipantIDs))
	for _, pid := range rec.ParticipantIDs {
		if pid == "" {
			continue
		}
		if _, dup := seen[pid]; dup {
			continue
		}
		seen[pid] = struct{}{}
		participants = append(participants, pid)
	}

	// Prefer the participant list's cardinality over the remote's
	// counter; the counter may be stale.
	members := len(participants)
	if members == 0 && len(rec.ParticipantIDs) == 0 {
		members = rec.MemberCount
	}
	if members < 0 {
		members = 0
	}

	return domain.Space{
		ID:           rec.ID,
		IDState:      domain.IDConfirmed,
		Title:        rec.Title,
		Description:  rec.Description,
		CreatorID:    rec.CreatorID,
		Universities: universities,
		Tags:         append([]string{}, rec.Tags...),
		IsActive:     rec.IsActive,
		CreatedAt:    rec.CreatedAt,
		Members:      members,
		Participants: participants,
		Messages:     []domain.Message{},
	}
}
