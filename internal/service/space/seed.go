// internal/service/space/seed.go

package space

import (
	"time"

	domain "unispace/internal/domain/space"
)

// seedSpaces is the fixed fallback dataset used when no remote data is
// available on a cold start. It is identical on every device and every
// run: ids, creators, and timestamps are all fixed literals.
func seedSpaces() []domain.Space {
	seededAt := time.Date(2025, time.January, 6, 9, 0, 0, 0, time.UTC)

	return []domain.Space{
		{
			ID:           "seed-algorithms-study",
			IDState:      domain.IDConfirmed,
			Title:        "Algorithms Study Group",
			Description:  "Weekly problem sets and mock interview practice.",
			CreatorID:    "seed-user-1",
			Universities: []string{"Technical University of Munich"},
			Tags:         []string{"algorithms", "interview-prep"},
			IsActive:     true,
			CreatedAt:    seededAt,
			Members:      0,
			Participants: []string{},
			Messages:     []domain.Message{},
		},
		{
			ID:           "seed-exchange-semester",
			IDState:      domain.IDConfirmed,
			Title:        "Exchange Semester Planning",
			Description:  "Find partners and tips for your semester abroad.",
			CreatorID:    "seed-user-2",
			Universities: []string{"University of Amsterdam", "Sorbonne University"},
			Tags:         []string{"exchange", "travel"},
			IsActive:     true,
			CreatedAt:    seededAt.Add(30 * time.Minute),
			Members:      0,
			Participants: []string{},
			Messages:     []domain.Message{},
		},
		{
			ID:           "seed-thesis-writing",
			IDState:      domain.IDConfirmed,
			Title:        "Thesis Writing Circle",
			Description:  "Accountability group for anyone writing a thesis this term.",
			CreatorID:    "seed-user-3",
			Universities: []string{"KU Leuven"},
			Tags:         []string{"thesis", "writing"},
			IsActive:     true,
			CreatedAt:    seededAt.Add(time.Hour),
			Members:      0,
			Participants: []string{},
			Messages:     []domain.Message{},
		},
	}
}
