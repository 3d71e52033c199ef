package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/linehash/hash-contract-tests/payload"
)

const (
	DefaultTimeout         = time.Second * 2
	DefaultReplyBufferSize = 512
)

// Params controls how sessions talk to the server.
type Params struct {
	// Timeout bounds connecting, each write, and the read of the reply.
	Timeout time.Duration
	// ReplyBufferSize is the most that is read for one reply.
	ReplyBufferSize int
	// MaxChunk is the largest chunk written for a generated line.
	MaxChunk int
}

func (p Params) withDefaults() Params {
	if p.Timeout <= 0 {
		p.Timeout = DefaultTimeout
	}
	if p.ReplyBufferSize <= 0 {
		p.ReplyBufferSize = DefaultReplyBufferSize
	}
	if p.MaxChunk <= 0 {
		p.MaxChunk = payload.DefaultMaxChunk
	}
	return p
}

// Session is one open connection to the server.
type Session struct {
	conn   net.Conn
	params Params
}

// Dial connects to the server.
func Dial(ctx context.Context, addr string, params Params) (*Session, error) {
	params = params.withDefaults()
	d := net.Dialer{Timeout: params.Timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	return New(conn, params), nil
}

// New wraps an already connected stream.
func New(conn net.Conn, params Params) *Session {
	return &Session{conn: conn, params: params.withDefaults()}
}

// Close closes the connection.
func (s *Session) Close() error {
	return s.conn.Close()
}

// Exchange sends one line and reads the reply to it.
//
// All chunks are written in order, with the terminator appended to the final one, before
// a single read of up to ReplyBufferSize bytes. The reply is not interpreted here beyond
// being recorded; comparing it is left to Outcome.Failed.
func (s *Session) Exchange(seed int64, src payload.Source) Outcome {
	digest := payload.NewDigest()
	for {
		chunk, ok := src.Next()
		if !ok {
			break
		}
		_, _ = digest.Write(chunk.Data)
		data := chunk.Data
		if chunk.Final {
			data = append(data[:len(data):len(data)], payload.Terminator)
		}
		if err := s.write(data); err != nil {
			return failedOutcome(seed, err)
		}
	}

	buf := make([]byte, s.params.ReplyBufferSize)
	if err := s.conn.SetReadDeadline(time.Now().Add(s.params.Timeout)); err != nil {
		return failedOutcome(seed, err)
	}
	n, err := s.conn.Read(buf)
	if err != nil && !(errors.Is(err, io.EOF) && n == 0) {
		return failedOutcome(seed, err)
	}
	return Outcome{Seed: seed, Expected: digest.Reply(), Received: string(buf[:n])}
}

func (s *Session) write(data []byte) error {
	if err := s.conn.SetWriteDeadline(time.Now().Add(s.params.Timeout)); err != nil {
		return err
	}
	_, err := s.conn.Write(data)
	return err
}

// Run connects, exchanges one line, and disconnects. Failing to connect is recorded in the
// Outcome like any other connection fault.
func Run(ctx context.Context, addr string, seed int64, src payload.Source, params Params) Outcome {
	s, err := Dial(ctx, addr, params)
	if err != nil {
		return failedOutcome(seed, err)
	}
	defer s.Close()
	return s.Exchange(seed, src)
}

// RunGenerated is Run with a line generated from seed.
func RunGenerated(ctx context.Context, addr string, seed int64, symbols int, params Params) Outcome {
	return Run(ctx, addr, seed, params.generator(seed, symbols), params)
}

func (p Params) generator(seed int64, symbols int) payload.Source {
	return payload.NewGeneratorWithRand(payload.NewRand(seed), symbols, p.MaxChunk)
}

// RunSequence sends several generated lines, one after another, over a single connection.
// Line i uses seed firstSeed+i. It stops at the first failing exchange, since the state of
// the connection is unknown after that.
func RunSequence(ctx context.Context, addr string, firstSeed int64, lines, symbols int, params Params) []Outcome {
	s, err := Dial(ctx, addr, params)
	if err != nil {
		return []Outcome{failedOutcome(firstSeed, err)}
	}
	defer s.Close()

	outcomes := make([]Outcome, 0, lines)
	for i := 0; i < lines; i++ {
		seed := firstSeed + int64(i)
		o := s.Exchange(seed, s.params.generator(seed, symbols))
		outcomes = append(outcomes, o)
		if o.Failed() {
			break
		}
	}
	return outcomes
}

// PanicOutcome records a session that panicked instead of returning.
func PanicOutcome(seed int64, r interface{}) Outcome {
	return failedOutcome(seed, fmt.Errorf("panic in session: %v", r))
}
