//go:build !windows

package command

import (
	"os"
	"syscall"
)

// sysProcAttr places the shell in its own process group so the whole tree
// can be killed at once.
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}

// killTree terminates the process group rooted at p. Backgrounded
// grandchildren inherit the group, so this also releases the output pipes
// they hold. Falls back to killing the single process if the group signal
// fails.
func killTree(p *os.Process) {
	if err := syscall.Kill(-p.Pid, syscall.SIGKILL); err != nil {
		_ = p.Kill()
	}
}
