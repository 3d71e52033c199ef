//go:build !windows

package harness

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
)

// The server leads its own process group, so that anything it starts can be killed with it.
func configureCommand(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func interrupt(p *os.Process) error {
	return p.Signal(os.Interrupt)
}

// killGroup kills the server's whole process group. It returns os.ErrProcessDone if nothing
// in the group was left to kill.
func killGroup(p *os.Process) error {
	err := syscall.Kill(-p.Pid, syscall.SIGKILL)
	if errors.Is(err, syscall.ESRCH) {
		return os.ErrProcessDone
	}
	return err
}
