package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/linehash/hash-contract-tests/framework"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const (
	DefaultStartupChecks   = 2
	DefaultStartupInterval = time.Second
	DefaultShutdownTimeout = time.Second * 2
)

// State is where a ServerProcess is in its lifecycle.
type State int

const (
	StateStarting State = iota
	StateRunning
	StateStopping
	StateExited
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateExited:
		return "exited"
	default:
		return "State(" + strconv.Itoa(int(s)) + ")"
	}
}

// ServerParams describes how to launch the server and how long to wait for it.
type ServerParams struct {
	Executable string
	// Host is where clients connect; the server itself is only told the port.
	Host string
	Port int
	// The process is checked StartupChecks times, StartupInterval apart, and must not exit.
	StartupChecks   int
	StartupInterval time.Duration
	// ShutdownTimeout is how long the server has to exit after being interrupted.
	ShutdownTimeout time.Duration
}

func (p ServerParams) withDefaults() ServerParams {
	if p.Host == "" {
		p.Host = "127.0.0.1"
	}
	if p.StartupChecks <= 0 {
		p.StartupChecks = DefaultStartupChecks
	}
	if p.StartupInterval <= 0 {
		p.StartupInterval = DefaultStartupInterval
	}
	if p.ShutdownTimeout <= 0 {
		p.ShutdownTimeout = DefaultShutdownTimeout
	}
	return p
}

// ServerProcess is a running instance of the server under test.
type ServerProcess struct {
	params   ServerParams
	cmd      *exec.Cmd
	logger   framework.Logger
	exited   chan struct{}
	state    State
	lock     sync.Mutex
	stopOnce sync.Once
	stopErr  error
}

// StartServer launches the server and waits out the startup checks.
//
// If the process cannot be launched or exits during the checks, the result is a
// *StartupError and there is nothing to stop. Otherwise the caller must call Stop.
func StartServer(ctx context.Context, params ServerParams, logger framework.Logger) (*ServerProcess, error) {
	params = params.withDefaults()
	if logger == nil {
		logger = framework.NullLogger()
	}
	cmd := exec.Command(params.Executable, strconv.Itoa(params.Port)) //nolint:gosec
	configureCommand(cmd)
	// Output goes through pipes we own rather than io.Writers, so that Wait returns as soon as
	// the server exits even if something it started still holds the other end.
	stdout, err := forwardOutput(&cmd.Stdout, &lineLogger{logger: logger, prefix: "[server stdout] "})
	if err != nil {
		return nil, &StartupError{Err: err}
	}
	stderr, err := forwardOutput(&cmd.Stderr, &lineLogger{logger: logger, prefix: "[server stderr] "})
	if err != nil {
		_ = stdout.Close()
		return nil, &StartupError{Err: err}
	}

	var line commandBuilder
	line.add(cmd.Args...)
	logger.Printf("Starting server: %s", line)

	s := &ServerProcess{
		params: params,
		cmd:    cmd,
		logger: logger,
		exited: make(chan struct{}),
		state:  StateStarting,
	}
	err = cmd.Start()
	// The child has its own copies of the write ends now.
	_ = stdout.Close()
	_ = stderr.Close()
	if err != nil {
		s.setState(StateExited)
		return nil, &StartupError{Err: err}
	}
	go func() {
		_ = cmd.Wait()
		s.setState(StateExited)
		close(s.exited)
	}()

	if err := s.awaitStartup(ctx); err != nil {
		s.killLeftovers()
		return nil, err
	}
	s.setState(StateRunning)
	logger.Printf("Server is running with pid %d on %s", cmd.Process.Pid, s.Addr())
	return s, nil
}

func (s *ServerProcess) awaitStartup(ctx context.Context) error {
	for i := 0; i < s.params.StartupChecks; i++ {
		timer := time.NewTimer(s.params.StartupInterval)
		select {
		case <-s.exited:
			timer.Stop()
			s.logger.Printf("Server exited during startup with code %d", s.cmd.ProcessState.ExitCode())
			return &StartupError{ExitCode: s.ExitCode()}
		case <-ctx.Done():
			timer.Stop()
			s.kill()
			return &StartupError{Err: ctx.Err()}
		case <-timer.C:
		}
	}
	select {
	case <-s.exited:
		return &StartupError{ExitCode: s.ExitCode()}
	default:
		return nil
	}
}

// forwardOutput points *target at the write end of a new pipe, and copies whatever is read
// from the pipe to w until every writer has closed it. The returned write end must be closed
// by the caller once the process has started.
func forwardOutput(target *io.Writer, w io.Writer) (*os.File, error) {
	r, pw, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	*target = pw
	go func() {
		_, _ = io.Copy(w, r)
		_ = r.Close()
	}()
	return pw, nil
}

// Addr is the address clients should connect to.
func (s *ServerProcess) Addr() string {
	return net.JoinHostPort(s.params.Host, strconv.Itoa(s.params.Port))
}

// State reports the current lifecycle state.
func (s *ServerProcess) State() State {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.state
}

// setState moves to a new state. Exited is final.
func (s *ServerProcess) setState(state State) {
	s.lock.Lock()
	if s.state != StateExited {
		s.state = state
	}
	s.lock.Unlock()
}

// ExitCode is the process's exit code once it has exited. It is -1 if the process was
// terminated by a signal, and undefined if it has not exited yet.
func (s *ServerProcess) ExitCode() ldvalue.OptionalInt {
	select {
	case <-s.exited:
		return ldvalue.NewOptionalInt(s.cmd.ProcessState.ExitCode())
	default:
		return ldvalue.OptionalInt{}
	}
}

// Stop asks the server to shut down gracefully and waits for it to exit.
//
// If it has not exited within the shutdown timeout it is killed, and the result is a
// *ShutdownError with Forced set. A server that exits with a code other than 0 also
// produces a *ShutdownError. Only the first call does anything; later calls return the
// same result.
func (s *ServerProcess) Stop() error {
	s.stopOnce.Do(func() {
		s.stopErr = s.stop()
	})
	return s.stopErr
}

func (s *ServerProcess) stop() error {
	select {
	case <-s.exited:
		s.logger.Printf("Server had already exited with code %d", s.cmd.ProcessState.ExitCode())
		s.killLeftovers()
		return s.checkExitCode()
	default:
	}

	s.setState(StateStopping)
	s.logger.Printf("Interrupting server")
	if err := interrupt(s.cmd.Process); err != nil && !errors.Is(err, os.ErrProcessDone) {
		s.kill()
		return &ShutdownError{Forced: true, ExitCode: s.ExitCode(), Err: fmt.Errorf("could not interrupt: %w", err)}
	}

	timer := time.NewTimer(s.params.ShutdownTimeout)
	defer timer.Stop()
	select {
	case <-s.exited:
		s.logger.Printf("Server exited with code %d", s.cmd.ProcessState.ExitCode())
		s.killLeftovers()
		return s.checkExitCode()
	case <-timer.C:
		s.logger.Printf("Server did not exit within %s; killing it", s.params.ShutdownTimeout)
		s.kill()
		return &ShutdownError{Forced: true, ExitCode: s.ExitCode()}
	}
}

func (s *ServerProcess) checkExitCode() error {
	code := s.ExitCode()
	if code.IntValue() != 0 {
		return &ShutdownError{ExitCode: code}
	}
	return nil
}

// kill forcibly ends the process, along with anything it started, and waits until its exit
// has been observed.
func (s *ServerProcess) kill() {
	if err := killGroup(s.cmd.Process); err != nil && !errors.Is(err, os.ErrProcessDone) {
		s.logger.Printf("Unable to kill server: %s", err)
		_ = s.cmd.Process.Kill()
	}
	<-s.exited
}

// killLeftovers kills whatever the server started and left running after it exited.
func (s *ServerProcess) killLeftovers() {
	select {
	case <-s.exited:
	default:
		return
	}
	if err := killGroup(s.cmd.Process); err == nil {
		s.logger.Printf("Killed processes left behind by the server")
	} else if !errors.Is(err, os.ErrProcessDone) {
		s.logger.Printf("Unable to kill processes left behind by the server: %s", err)
	}
}
