// Package launcher starts the two services as child processes and waits on them.
package launcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"redact-relay/internal/config"
)

// waitDelay bounds how long Wait keeps reading a child's output after the
// child itself is gone. Grandchildren holding the pipe open must not block it.
const waitDelay = 500 * time.Millisecond

// Process describes one child to start.
type Process struct {
	Name string
	Path string
	Args []string
	Env  []string // appended to the launcher's environment
}

// Services returns the redactor and query processes. Unset binary paths
// resolve to same-named executables in binDir.
func Services(cfg config.Config, binDir string) []Process {
	return []Process{
		{Name: string(config.ServiceRedactor), Path: binPath(cfg.RedactorBin, binDir, "redactor")},
		{Name: string(config.ServiceQuery), Path: binPath(cfg.QueryBin, binDir, "query")},
	}
}

func binPath(configured, dir, name string) string {
	if configured != "" {
		return configured
	}
	return filepath.Join(dir, name)
}

// Run starts every process and blocks until all have exited, returning the
// first failure. If ctx ends first Run returns ctx.Err() and leaves the
// children alone: they share the terminal's process group and get the same signal.
func Run(ctx context.Context, log *slog.Logger, procs []Process, stdout, stderr io.Writer) error {
	stdout, stderr = serialize(stdout, stderr)
	cmds := make([]*exec.Cmd, 0, len(procs))
	for _, p := range procs {
		cmd := exec.Command(p.Path, p.Args...)
		cmd.Stdout = stdout
		cmd.Stderr = stderr
		cmd.Env = append(os.Environ(), p.Env...)
		cmd.WaitDelay = waitDelay
		if err := cmd.Start(); err != nil {
			killAll(log, cmds)
			return fmt.Errorf("start %s: %w", p.Name, err)
		}
		log.Info("process started", "name", p.Name, "pid", cmd.Process.Pid)
		cmds = append(cmds, cmd)
	}

	var g errgroup.Group
	for i, cmd := range cmds {
		name := procs[i].Name
		g.Go(func() error {
			if err := cmd.Wait(); err != nil {
				log.Error("process exited", "name", name, "err", err)
				return fmt.Errorf("%s: %w", name, err)
			}
			log.Info("process exited", "name", name)
			return nil
		})
	}

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// killAll stops children started before a later start failed.
func killAll(log *slog.Logger, cmds []*exec.Cmd) {
	for _, cmd := range cmds {
		if err := cmd.Process.Kill(); err != nil {
			log.Warn("failed to stop process", "pid", cmd.Process.Pid, "err", err)
		}
		_ = cmd.Wait()
	}
}

// lockedWriter serializes writes from the per-child copy goroutines that
// os/exec starts for writers that are not files.
type lockedWriter struct {
	mu *sync.Mutex
	w  io.Writer
}

func (l lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// serialize wraps non-file writers behind one shared lock. Files are passed
// to the children directly and need no copying.
func serialize(stdout, stderr io.Writer) (io.Writer, io.Writer) {
	var mu sync.Mutex
	wrap := func(w io.Writer) io.Writer {
		if w == nil {
			return nil
		}
		if _, ok := w.(*os.File); ok {
			return w
		}
		return lockedWriter{mu: &mu, w: w}
	}
	return wrap(stdout), wrap(stderr)
}
