//go:build !windows

package supervisor

import (
	"os"
	"os/exec"
	"syscall"
)

// detach puts the client in its own process group so terminal signals sent
// to relictum do not reach it.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func alive(p *os.Process) bool {
	return p.Signal(syscall.Signal(0)) == nil
}
