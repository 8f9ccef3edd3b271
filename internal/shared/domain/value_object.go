package domain

import "github.com/google/uuid"

// ValueObject represents an immutable domain concept defined by its attributes.
type ValueObject interface {
	Equals(other ValueObject) bool
}

// SubjectID identifies a calendar subject: a user or a bookable room.
// Both occupy time the same way, so the conflict index addresses them
// uniformly through this type.
type SubjectID struct {
	value uuid.UUID
}

// NewSubjectID creates a SubjectID from a UUID.
func NewSubjectID(id uuid.UUID) SubjectID {
	return SubjectID{value: id}
}

// ParseSubjectID parses a SubjectID from its string form.
func ParseSubjectID(s string) (SubjectID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return SubjectID{}, InvalidRequestf("parse subject id %q", s)
	}
	return SubjectID{value: id}, nil
}

// UUID returns the underlying UUID.
func (s SubjectID) UUID() uuid.UUID { return s.value }

// String returns the string representation of the SubjectID.
func (s SubjectID) String() string { return s.value.String() }

// IsEmpty returns true if the SubjectID is unset.
func (s SubjectID) IsEmpty() bool { return s.value == uuid.Nil }

// Equals checks if two SubjectIDs refer to the same subject.
func (s SubjectID) Equals(other ValueObject) bool {
	if o, ok := other.(SubjectID); ok {
		return s.value == o.value
	}
	return false
}
