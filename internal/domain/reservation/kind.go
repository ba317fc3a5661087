package reservation

import (
	"strings"

	"github.com/BruksfildServices01/rehearsal-scheduler/internal/httperr"
)

type Kind string

const (
	KindRehearsal    Kind = "REHEARSAL"
	KindBandShow     Kind = "BAND_SHOW"
	KindPersonalShow Kind = "PERSONAL_SHOW"
)

func ParseKind(raw string) (Kind, error) {
	switch k := Kind(strings.ToUpper(strings.TrimSpace(raw))); k {
	case KindRehearsal, KindBandShow, KindPersonalShow:
		return k, nil
	}
	return "", httperr.ErrValidation("invalid_kind")
}

// Label is the human title used on calendars.
func (k Kind) Label() string {
	switch k {
	case KindRehearsal:
		return "Rehearsal"
	case KindBandShow:
		return "Show"
	case KindPersonalShow:
		return "Personal show"
	}
	return string(k)
}
