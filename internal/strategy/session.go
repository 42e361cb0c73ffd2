package strategy

import (
	"time"

	"ImpulseRadar/internal/model"
)

// SessionLabel maps an instant to the coarse trading session shown in report
// headers: Asia 00:00-06:59 UTC, London 07:00-11:59 UTC, New York otherwise.
// Display only; classification never depends on it.
func SessionLabel(t time.Time) model.Session {
	switch h := t.UTC().Hour(); {
	case h < 7:
		return model.SessionAsia
	case h < 12:
		return model.SessionLondon
	default:
		return model.SessionNewYork
	}
}
