// Package fakeserver implements line-hashing servers for testing the contract tests themselves.
//
// ModeConforming behaves the way a correct server should; the other modes each break one
// part of the contract. A server can run inside the test process (Listen), or the test binary
// can re-execute itself as a server subprocess: TestMain calls RunIfRequested, and the mode
// is chosen through the EnvMode environment variable.
package fakeserver

import (
	"bufio"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"sync"
)

// EnvMode selects the server behavior when the test binary is started as a server subprocess.
const EnvMode = "HASHTEST_FAKE_SERVER_MODE"

type Mode string

const (
	ModeConforming      Mode = "conforming"
	ModeWrongDigest     Mode = "wrong-digest"
	ModeNoTerminator    Mode = "no-terminator"
	ModeSilent          Mode = "silent"
	ModeExitImmediately Mode = "exit-immediately"
	ModeIgnoreInterrupt Mode = "ignore-interrupt"
	ModeBadExitCode     Mode = "bad-exit-code"
)

const (
	// EarlyExitCode is returned by ModeExitImmediately.
	EarlyExitCode = 3
	// BadExitCode is returned on interrupt by ModeBadExitCode.
	BadExitCode = 5
)

// Server is a running fake server.
type Server struct {
	Addr     string
	listener net.Listener
	mode     Mode
	conns    sync.WaitGroup
	lock     sync.Mutex
	open     map[net.Conn]struct{}
}

// Listen starts a fake server on addr, which may use port 0.
func Listen(addr string, mode Mode) (*Server, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	s := &Server{Addr: l.Addr().String(), listener: l, mode: mode, open: make(map[net.Conn]struct{})}
	go s.acceptLoop()
	return s, nil
}

// Close stops accepting and drops all connections.
func (s *Server) Close() error {
	err := s.listener.Close()
	s.lock.Lock()
	for c := range s.open {
		_ = c.Close()
	}
	s.lock.Unlock()
	s.conns.Wait()
	return err
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		s.lock.Lock()
		s.open[conn] = struct{}{}
		s.lock.Unlock()
		s.conns.Add(1)
		go func() {
			defer s.conns.Done()
			s.serve(conn)
			s.lock.Lock()
			delete(s.open, conn)
			s.lock.Unlock()
			_ = conn.Close()
		}()
	}
}

func (s *Server) serve(conn net.Conn) {
	r := bufio.NewReader(conn)
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		sum := sha256.Sum256([]byte(line[:len(line)-1]))
		reply := hex.EncodeToString(sum[:])
		switch s.mode {
		case ModeSilent:
			continue
		case ModeWrongDigest:
			reply = flipFirst(reply) + "\n"
		case ModeNoTerminator:
		default:
			reply += "\n"
		}
		if _, err := conn.Write([]byte(reply)); err != nil {
			return
		}
	}
}

func flipFirst(hexDigest string) string {
	b := []byte(hexDigest)
	if b[0] == '0' {
		b[0] = '1'
	} else {
		b[0] = '0'
	}
	return string(b)
}

// FreePort asks the OS for a TCP port that is currently unused on the loopback interface.
func FreePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

// RunIfRequested turns the current process into a fake server subprocess if EnvMode is set,
// and exits with the server's exit code. Otherwise it returns immediately.
func RunIfRequested() {
	mode := Mode(os.Getenv(EnvMode))
	if mode == "" {
		return
	}
	os.Exit(runSubprocess(mode, os.Args[1:]))
}

func runSubprocess(mode Mode, args []string) int {
	if mode == ModeExitImmediately {
		return EarlyExitCode
	}
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: server <port>")
		return 2
	}
	port, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid port %q\n", args[0])
		return 2
	}

	ctx := context.Background()
	if mode == ModeIgnoreInterrupt {
		signal.Ignore(os.Interrupt)
	} else {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, os.Interrupt)
		defer stop()
	}

	s, err := Listen(net.JoinHostPort("127.0.0.1", strconv.Itoa(port)), mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "listen failed: %s\n", err)
		return 1
	}
	<-ctx.Done()
	if err := s.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		fmt.Fprintf(os.Stderr, "close failed: %s\n", err)
	}
	if mode == ModeBadExitCode {
		return BadExitCode
	}
	return 0
}
