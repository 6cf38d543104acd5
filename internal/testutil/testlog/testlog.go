package testlog

import (
	"testing"
	"time"

	"github.com/danmuck/dbgadgets/internal/logging"
	"github.com/rs/zerolog/log"
)

// Start configures test logging and brackets the test with start and end
// events carrying its name, outcome and duration.
func Start(t *testing.T) {
	t.Helper()
	logging.ConfigureTests()
	started := time.Now()
	log.Info().Str("test", t.Name()).Msg("test start")
	t.Cleanup(func() {
		log.Info().
			Str("test", t.Name()).
			Bool("failed", t.Failed()).
			Dur("elapsed", time.Since(started)).
			Msg("test end")
	})
}
