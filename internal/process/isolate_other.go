//go:build !unix

package process

import "os/exec"

// isolate falls back to killing only the direct child.
func isolate(c *exec.Cmd) {
	c.Cancel = func() error {
		if c.Process == nil {
			return nil
		}
		return c.Process.Kill()
	}
}
