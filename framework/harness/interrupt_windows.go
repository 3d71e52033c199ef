//go:build windows

package harness

import (
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

// The server gets its own process group so that a console control event can be sent to it
// without also interrupting the harness.
func configureCommand(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: windows.CREATE_NEW_PROCESS_GROUP}
}

func interrupt(p *os.Process) error {
	return windows.GenerateConsoleCtrlEvent(windows.CTRL_BREAK_EVENT, uint32(p.Pid))
}

// TODO: use a job object so that processes started by the server are killed with it.
func killGroup(p *os.Process) error {
	return p.Kill()
}
