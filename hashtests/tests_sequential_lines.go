package hashtests

import (
	"context"

	"github.com/linehash/hash-contract-tests/scenario"
	"github.com/linehash/hash-contract-tests/session"

	"github.com/stretchr/testify/assert"
)

func DoSequentialLineTests(t *T) {
	t.Run("several lines over one connection", func(t *T) {
		cfg := t.Config()
		server := t.StartServer()
		result := scenario.Result{
			Outcomes: session.RunSequence(context.Background(), server.Addr(), cfg.Seed, cfg.Lines, cfg.Symbols, cfg.SessionParams()),
		}
		t.RequireSessionsOK(result)
		assert.Len(t, result.Outcomes, cfg.Lines)
	})
}
