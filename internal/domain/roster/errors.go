package roster

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/match-intake/internal/domain/formation"
)

var (
	ErrUnknownFormation   = formation.ErrUnknownFormation
	ErrInvalidPlayer      = errors.New("invalid player")
	ErrInsufficientRoster = errors.New("insufficient roster")
	ErrNoActiveSession    = errors.New("no slot is being edited")
	ErrSlotEmpty          = errors.New("slot has no player")
)

func newInvalidPlayer(reason string) error {
	return errors.Wrap(ErrInvalidPlayer, reason)
}

// InsufficientRosterError reports how many starters are assigned when
// finalizing is refused.
type InsufficientRosterError struct {
	Filled   int
	Required int
}

func (e *InsufficientRosterError) Error() string {
	return fmt.Sprintf("%s: at least %d starting players are required, %d assigned", ErrInsufficientRoster, e.Required, e.Filled)
}

func (e *InsufficientRosterError) Unwrap() error {
	return ErrInsufficientRoster
}
