package tools

import (
	"math"

	"github.com/shirou/gopsutil/v4/process"
)

// ProcessRunning reports whether pid is present in the OS process table. Pids
// outside the positive int32 range cannot exist and report false.
func ProcessRunning(pid int) (bool, error) {
	if pid <= 0 || pid > math.MaxInt32 {
		return false, nil
	}
	return process.PidExists(int32(pid))
}
