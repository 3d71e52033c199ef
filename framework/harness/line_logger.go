package harness

import (
	"bytes"
	"sync"

	"github.com/linehash/hash-contract-tests/framework"
)

// lineLogger forwards a subprocess's output to a Logger one line at a time.
type lineLogger struct {
	logger framework.Logger
	prefix string
	buf    []byte
	lock   sync.Mutex
}

func (l *lineLogger) Write(p []byte) (int, error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.buf = append(l.buf, p...)
	for {
		i := bytes.IndexByte(l.buf, '\n')
		if i < 0 {
			break
		}
		l.logger.Printf("%s%s", l.prefix, bytes.TrimRight(l.buf[:i], "\r"))
		l.buf = l.buf[i+1:]
	}
	return len(p), nil
}
