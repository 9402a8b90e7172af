//go:build windows

package runner

import (
	"os/exec"
	"strconv"
)

func isWindows() bool { return true }

// configureProcAttr is a no-op on Windows (Setpgid not supported); taskkill
// walks the tree instead.
func configureProcAttr(_ *exec.Cmd) {}

// interruptGroup asks taskkill to end the child's process tree.
func interruptGroup(cmd *exec.Cmd) error {
	return exec.Command("taskkill", "/T", "/PID", strconv.Itoa(cmd.Process.Pid)).Run()
}

// killGroup forces the child's process tree down.
func killGroup(cmd *exec.Cmd) error {
	if err := exec.Command("taskkill", "/T", "/F", "/PID", strconv.Itoa(cmd.Process.Pid)).Run(); err != nil {
		return cmd.Process.Kill()
	}
	return nil
}
