// Package debug implements protocol tracing. Tracing is enabled by
// setting $WAYLAND_DEBUG to a positive integer.
package debug

import (
	"os"
	"strconv"

	"github.com/charmbracelet/log"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	Level:           log.DebugLevel,
	Prefix:          "wayland",
	ReportTimestamp: true,
})

var debug = func(string, ...any) {}

func init() {
	debugLevel, err := strconv.ParseInt(os.Getenv("WAYLAND_DEBUG"), 10, 0)
	if err != nil {
		return
	}
	if debugLevel > 0 {
		debug = logger.Debugf
	}
}

func Printf(str string, args ...any) {
	debug(str, args...)
}
