package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component derives a logger tagged with the owning subsystem, so log
// lines group by the "cmp" field. Pass the package-ish name of the
// caller, e.g. "tui.redact" or "store.spans".
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger()
}
