package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/3-lines-studio/genfig/internal/core"
	"github.com/3-lines-studio/genfig/internal/usecase"
)

const (
	DefaultHost = "127.0.0.1"
	DefaultPort = 5028

	defaultStopGrace  = 5 * time.Second
	maxCapturedOutput = 64 << 10
)

type ServerConfig struct {
	Host string
	Port int
	// Command is the server argv. "{host}", "{port}" and "{root}" are
	// substituted in every argument. Empty means DefaultCommand.
	Command   []string
	StopGrace time.Duration
	Env       []string
}

// DefaultCommand serves the root with Python's http.server, which works
// whatever binary embeds the generator.
func DefaultCommand() []string {
	return []string{"python3", "-m", "http.server", "{port}", "--bind", "{host}", "--directory", "{root}"}
}

// SelfCommand runs the current executable's "serve" subcommand. Only
// binaries that implement it, like cmd/genfig, may use it.
func SelfCommand() ([]string, error) {
	self, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to locate executable: %w", err)
	}
	return []string{self, "serve", "-host", "{host}", "-port", "{port}", "-root", "{root}"}, nil
}

// StaticServer starts one static file server child process per Start call.
// The port is shared process-wide; callers must not run two servers with the
// same config at once.
type StaticServer struct {
	config ServerConfig
	logger *slog.Logger
}

func NewStaticServer(config ServerConfig, logger *slog.Logger) *StaticServer {
	if config.Host == "" {
		config.Host = DefaultHost
	}
	if config.Port == 0 {
		config.Port = DefaultPort
	}
	if config.StopGrace <= 0 {
		config.StopGrace = defaultStopGrace
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StaticServer{
		config: config,
		logger: logger,
	}
}

func (s *StaticServer) Addr() string {
	return core.ServerAddr(s.config.Host, s.config.Port)
}

// Start spawns the server rooted at root and returns without waiting for it
// to accept connections.
func (s *StaticServer) Start(ctx context.Context, root string) (usecase.ServerHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := checkPortFree(s.Addr()); err != nil {
		return nil, err
	}

	argv := s.config.Command
	if len(argv) == 0 {
		argv = DefaultCommand()
	}
	argv = expandArgs(argv, map[string]string{
		"{host}": s.config.Host,
		"{port}": strconv.Itoa(s.config.Port),
		"{root}": root,
	})

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = root
	cmd.Env = append(os.Environ(), s.config.Env...)

	proc := &ServerProcess{
		cmd:    cmd,
		addr:   s.Addr(),
		grace:  s.config.StopGrace,
		logger: s.logger,
		stdout: &limitedBuffer{limit: maxCapturedOutput},
		stderr: &limitedBuffer{limit: maxCapturedOutput},
		done:   make(chan struct{}),
	}
	cmd.Stdout = proc.stdout
	cmd.Stderr = proc.stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start static server %q: %w", argv[0], err)
	}

	go func() {
		proc.waitErr = cmd.Wait()
		close(proc.done)
	}()

	s.logger.Debug("static server started", "addr", proc.addr, "root", root, "pid", cmd.Process.Pid)

	return proc, nil
}

type ServerProcess struct {
	cmd    *exec.Cmd
	addr   string
	grace  time.Duration
	logger *slog.Logger
	stdout *limitedBuffer
	stderr *limitedBuffer

	done    chan struct{}
	waitErr error

	stopOnce sync.Once
	stopErr  error
}

func (p *ServerProcess) Pid() int {
	return p.cmd.Process.Pid
}

// Stop terminates the server and waits for it, collecting its output.
// Calls after the first return the first result.
func (p *ServerProcess) Stop() error {
	p.stopOnce.Do(func() {
		p.stopErr = p.stop()
	})
	return p.stopErr
}

func (p *ServerProcess) stop() error {
	select {
	case <-p.done:
		p.logOutput()
		return exitError(p.waitErr, "static server exited early")
	default:
	}

	if err := terminate(p.cmd.Process); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("failed to signal static server: %w", err)
	}

	timer := time.NewTimer(p.grace)
	defer timer.Stop()

	select {
	case <-p.done:
	case <-timer.C:
		p.logger.Warn("static server ignored termination, killing", "addr", p.addr, "pid", p.Pid())
		if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			return fmt.Errorf("failed to kill static server: %w", err)
		}
		<-p.done
	}

	p.logOutput()
	return nil
}

func (p *ServerProcess) logOutput() {
	if out := strings.TrimSpace(p.stdout.String()); out != "" {
		p.logger.Debug("static server stdout", "addr", p.addr, "output", out)
	}
	if out := strings.TrimSpace(p.stderr.String()); out != "" {
		p.logger.Debug("static server stderr", "addr", p.addr, "output", out)
	}
}

func terminate(proc *os.Process) error {
	if runtime.GOOS == "windows" {
		return proc.Kill()
	}
	return proc.Signal(syscall.SIGTERM)
}

func exitError(err error, msg string) error {
	if err == nil {
		return fmt.Errorf("%s", msg)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func checkPortFree(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", core.ErrPortUnavailable, addr, err)
	}
	return ln.Close()
}

func expandArgs(argv []string, values map[string]string) []string {
	out := make([]string, len(argv))
	for i, arg := range argv {
		for placeholder, value := range values {
			arg = strings.ReplaceAll(arg, placeholder, value)
		}
		out[i] = arg
	}
	return out
}

// limitedBuffer keeps the first limit bytes written and discards the rest
// while still reporting full writes, so the child never blocks on a full pipe.
type limitedBuffer struct {
	mu    sync.Mutex
	buf   bytes.Buffer
	limit int
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if room := b.limit - b.buf.Len(); room > 0 {
		if len(p) > room {
			b.buf.Write(p[:room])
		} else {
			b.buf.Write(p)
		}
	}
	return len(p), nil
}

func (b *limitedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
