package tools

import (
	"os/exec"
	"syscall"
)

func setVerbatimCmdLine(cmd *exec.Cmd, line string) {
	cmd.SysProcAttr = &syscall.SysProcAttr{CmdLine: line}
}
