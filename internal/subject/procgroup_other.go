//go:build !unix

package subject

import "os/exec"

// killProcessGroup is a no-op where process groups are unavailable; the
// default cancel kills the direct child only.
func killProcessGroup(cmd *exec.Cmd) {}
