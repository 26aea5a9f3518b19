//go:build windows

package executor

import (
	"os"
	"os/exec"
	"strconv"
)

func configureProcessGroup(cmd *exec.Cmd) {
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		kill := exec.Command("taskkill", "/T", "/F", "/PID", strconv.Itoa(cmd.Process.Pid))
		if err := kill.Run(); err != nil {
			return cmd.Process.Kill()
		}
		return nil
	}
}

// killProcessGroup is a no-op: once the leader has exited its pid may already
// belong to an unrelated process, and orphans have left its tree anyway.
// TODO: assign the child to a job object so orphans can be killed here too.
func killProcessGroup(int) {}

func exitStatus(state *os.ProcessState) int {
	return state.ExitCode()
}
