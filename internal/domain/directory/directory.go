// internal/domain/directory/directory.go

package directory

// UnknownUniversity is substituted for any university id the directory
// cannot resolve. Translation never fails on a missing entry.
const UnknownUniversity = "Unknown University"

// Directory maps opaque university identifiers to display names.
type Directory interface {
	// NameOf returns the display name for a university id, or false
	// when the id is not known.
	NameOf(universityID string) (string, bool)
}

// Static is an in-memory Directory backed by a fixed mapping.
type Static struct {
	names map[string]string
}

// NewStatic creates a directory from an id-to-name mapping.
func NewStatic(names map[string]string) *Static {
	m := make(map[string]string, len(names))
	for id, name := range names {
		m[id] = name
	}
	return &Static{names: m}
}

func (s *Static) NameOf(universityID string) (string, bool) {
	name, ok := s.names[universityID]
	return name, ok
}

// Resolve maps a university id to its display name, falling back to
// the UnknownUniversity placeholder.
func Resolve(d Directory, universityID string) string {
	if d != nil {
		if name, ok := d.NameOf(universityID); ok {
			return name
		}
	}
	return UnknownUniversity
}
