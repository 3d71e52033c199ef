package payload

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
)

// Terminator ends every line in both directions of the protocol.
const Terminator = '\n'

// Digest accumulates the content of one line and computes the reply a conforming server
// sends for it. The result does not depend on how the line was split into chunks.
type Digest struct {
	h hash.Hash
}

// NewDigest returns a Digest of the empty line.
func NewDigest() *Digest {
	return &Digest{h: sha256.New()}
}

// Write adds line content. It must not include the terminator.
func (d *Digest) Write(p []byte) (int, error) {
	return d.h.Write(p)
}

// Hex returns the lowercase hexadecimal SHA-256 of everything written so far.
func (d *Digest) Hex() string {
	return hex.EncodeToString(d.h.Sum(nil))
}

// Reply returns Hex followed by the terminator: the exact bytes expected from the server.
func (d *Digest) Reply() string {
	return d.Hex() + string(Terminator)
}

// ExpectedReply drains a Source and returns the reply for the whole line.
func ExpectedReply(src Source) string {
	d := NewDigest()
	for {
		chunk, ok := src.Next()
		if !ok {
			break
		}
		_, _ = d.Write(chunk.Data)
	}
	return d.Reply()
}
