package valueobjects

import (
	"fmt"

	pkgerrors "ecnelisfly/pkg/errors"
)

// SoundStatus is the moderation lifecycle of a sound.
type SoundStatus string

const (
	SoundStatusPrivate           SoundStatus = "private"
	SoundStatusPendingModeration SoundStatus = "public_to_be_approved"
	SoundStatusPublic            SoundStatus = "public"
)

// ParseSoundStatus validates a raw status. Empty input maps to private.
func ParseSoundStatus(raw string) (SoundStatus, error) {
	switch SoundStatus(raw) {
	case "":
		return SoundStatusPrivate, nil
	case SoundStatusPrivate, SoundStatusPendingModeration, SoundStatusPublic:
		return SoundStatus(raw), nil
	default:
		return "", pkgerrors.NewValidationError(fmt.Sprintf("unknown sound status %q", raw))
	}
}

// IsValid reports whether s is one of the known statuses.
func (s SoundStatus) IsValid() bool {
	_, err := ParseSoundStatus(string(s))
	return err == nil && s != ""
}

var allowedTransitions = map[SoundStatus][]SoundStatus{
	SoundStatusPrivate:           {SoundStatusPendingModeration},
	SoundStatusPendingModeration: {SoundStatusPublic, SoundStatusPrivate},
	SoundStatusPublic:            {SoundStatusPrivate},
}

// CanTransition reports whether a moderator may move a sound from s to next.
// Setting the current status again is allowed.
func (s SoundStatus) CanTransition(next SoundStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
