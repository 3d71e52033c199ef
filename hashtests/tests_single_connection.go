package hashtests

import (
	"context"

	"github.com/linehash/hash-contract-tests/framework/harness"
	"github.com/linehash/hash-contract-tests/payload"
	"github.com/linehash/hash-contract-tests/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// oceanicDigest is the SHA-256 of "oceanic 815".
const oceanicDigest = "ae6a9df8bdf4545392e6b1354252af8546282b49033a9118b12e9511892197c6"

// defaultLineDigest is the digest of the line generated for seed 815 with 10000 symbols and
// the default chunk size.
const defaultLineDigest = "db0acbd68803ed8db51d7abe3deea6f1ad4fc374f1c2ec04dd3bdfe13a00c108"

func DoSingleConnectionTests(t *T) {
	t.Run("generated line", func(t *T) {
		seed := t.Config().Seed
		result := t.RunSessions(seed)
		t.RequireSessionsOK(result)
		assert.Equal(t,
			payload.ExpectedReply(payload.NewGeneratorWithRand(payload.NewRand(seed), t.Config().Symbols, t.Config().MaxChunk)),
			result.Outcomes[0].Received)
		if cfg := t.Config(); seed == 815 && cfg.Symbols == 10000 && cfg.MaxChunk == payload.DefaultMaxChunk {
			assert.Equal(t, defaultLineDigest+"\n", result.Outcomes[0].Received)
		}
	})

	t.Run("same seed gives same reply from a new server", func(t *T) {
		seed := t.Config().Seed
		first := t.RunSessions(seed)
		t.RequireSessionsOK(first)
		second := t.RunSessions(seed)
		t.RequireSessionsOK(second)
		assert.Equal(t, first.Outcomes[0].Expected, second.Outcomes[0].Expected)
		assert.Equal(t, first.Outcomes[0].Received, second.Outcomes[0].Received)
	})

	t.Run("predefined line", func(t *T) {
		params := t.Config().SessionParams()
		result := t.RunScenario(func(ctx context.Context, server *harness.ServerProcess) []session.Outcome {
			return []session.Outcome{session.Run(ctx, server.Addr(), 0, payload.FixedLine("oceanic 815"), params)}
		})
		require.Len(t, result.Outcomes, 1)
		t.RequireOutcomeOK(result.Outcomes[0])
		assert.Equal(t, oceanicDigest+"\n", result.Outcomes[0].Received)
	})

	t.Run("empty line", func(t *T) {
		params := t.Config().SessionParams()
		result := t.RunScenario(func(ctx context.Context, server *harness.ServerProcess) []session.Outcome {
			return []session.Outcome{session.RunGenerated(ctx, server.Addr(), t.Config().Seed, 0, params)}
		})
		require.Len(t, result.Outcomes, 1)
		t.RequireOutcomeOK(result.Outcomes[0])
	})
}
