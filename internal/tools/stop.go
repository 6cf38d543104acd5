package tools

import "github.com/rs/zerolog/log"

// StopProcess asks pid to terminate, or kills it when force is set. POSIX
// hosts send SIGTERM or SIGKILL; Windows hosts run taskkill.
func StopProcess(pid int, force bool) error {
	log.Debug().Int("pid", pid).Bool("force", force).Msg("tools.StopProcess")
	return CurrentPlatform().StopPID(pid, force)
}
