package supervisor

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/rs/zerolog/log"
)

// ExecLauncher starts the worker as a child process. Standard streams are
// discarded unless LogFile is set, in which case stdout and stderr are appended
// to it. The exit status is logged by a reaper goroutine and otherwise ignored.
type ExecLauncher struct {
	Command []string
	Dir     string
	Env     []string
	LogFile string
}

func (l *ExecLauncher) Launch() (int, error) {
	if len(l.Command) == 0 {
		return 0, errors.New("empty worker command")
	}

	cmd := exec.Command(l.Command[0], l.Command[1:]...)
	cmd.Dir = l.Dir
	cmd.Env = append(os.Environ(), l.Env...)

	var logFile *os.File
	if l.LogFile != "" {
		f, err := os.OpenFile(l.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return 0, fmt.Errorf("open worker log: %w", err)
		}
		logFile = f
		cmd.Stdout = f
		cmd.Stderr = f
	}

	if err := cmd.Start(); err != nil {
		if logFile != nil {
			logFile.Close()
		}
		return 0, fmt.Errorf("start worker: %w", err)
	}

	pid := cmd.Process.Pid
	go func() {
		err := cmd.Wait()
		if logFile != nil {
			logFile.Close()
		}
		evt := log.Info()
		if err != nil {
			evt = log.Warn().Err(err)
		}
		evt.Int("pid", pid).Msg("worker exited")
	}()
	return pid, nil
}
