package payload

import (
	"math/rand/v2"
)

// Alphabet is the set of symbols that generated lines are made of.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// DefaultMaxChunk is the largest number of symbols the generator puts in a single chunk.
const DefaultMaxChunk = 2048

// Chunk is one piece of a line as it will be written to the connection.
//
// Data never includes the line terminator. Final is set on the last chunk of the line, so
// that the caller can append the terminator exactly once.
type Chunk struct {
	Data  []byte
	Final bool
}

// Source is anything that can provide the chunks of one line, in order.
//
// Next returns false once the final chunk has been returned.
type Source interface {
	Next() (Chunk, bool)
}

// Generator is a Source that produces a pseudo-random line of a fixed number of symbols,
// split into pseudo-random chunk sizes. It is fully determined by its random source.
type Generator struct {
	rng       *rand.Rand
	remaining int
	maxChunk  int
	done      bool
}

// NewGenerator creates a Generator whose output depends only on seed and symbols.
func NewGenerator(seed int64, symbols int) *Generator {
	return NewGeneratorWithRand(NewRand(seed), symbols, DefaultMaxChunk)
}

// NewGeneratorWithRand creates a Generator that draws from the given random source.
//
// A maxChunk of zero or less means DefaultMaxChunk. A negative symbol count is treated as zero.
func NewGeneratorWithRand(rng *rand.Rand, symbols int, maxChunk int) *Generator {
	if maxChunk <= 0 {
		maxChunk = DefaultMaxChunk
	}
	if symbols < 0 {
		symbols = 0
	}
	return &Generator{rng: rng, remaining: symbols, maxChunk: maxChunk}
}

// NewRand returns the random source that NewGenerator uses for a seed.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
}

// Next returns the next chunk of the line.
//
// A line of zero symbols still yields one empty final chunk, since the terminator has to be
// sent for the server to see a line at all.
func (g *Generator) Next() (Chunk, bool) {
	if g.done {
		return Chunk{}, false
	}
	size := 1 + g.rng.IntN(g.maxChunk)
	if size > g.remaining {
		size = g.remaining
	}
	data := make([]byte, size)
	for i := range data {
		data[i] = Alphabet[g.rng.IntN(len(Alphabet))]
	}
	g.remaining -= size
	if g.remaining == 0 {
		g.done = true
	}
	return Chunk{Data: data, Final: g.done}, true
}

type fixedLine struct {
	text string
	done bool
}

// FixedLine returns a Source that sends the given text as a single final chunk.
func FixedLine(text string) Source {
	return &fixedLine{text: text}
}

func (f *fixedLine) Next() (Chunk, bool) {
	if f.done {
		return Chunk{}, false
	}
	f.done = true
	return Chunk{Data: []byte(f.text), Final: true}, true
}
