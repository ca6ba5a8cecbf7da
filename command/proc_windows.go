//go:build windows

package command

import (
	"os"
	"syscall"
)

func sysProcAttr() *syscall.SysProcAttr { return nil }

// killTree kills the single process; Windows has no process groups in the
// POSIX sense.
func killTree(p *os.Process) {
	_ = p.Kill()
}
