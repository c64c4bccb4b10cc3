package common

import (
	"strings"

	"github.com/google/uuid"
)

// UUID is the opaque identity of every entity. Stored and rendered in the
// canonical lowercase 8-4-4-4-12 form.
type UUID string

func NewUUID() UUID {
	return UUID(uuid.NewString())
}

func ParseUUID(value string) (UUID, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return "", err
	}
	return UUID(parsed.String()), nil
}

func (u UUID) String() string {
	return string(u)
}

func (u UUID) IsZero() bool {
	return u == ""
}
