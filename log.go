package ui

import (
	"log/slog"

	"github.com/Yeicor/fractal-ui/internal/logging"
)

func logger() *slog.Logger { return logging.For("ui") }

// SetLogger routes the logs of every package of this module to l. Logging is disabled until this is called.
func SetLogger(l *slog.Logger) { logging.SetLogger(l) }
