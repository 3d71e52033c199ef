package hashtests

import (
	"github.com/linehash/hash-contract-tests/config"
	"github.com/linehash/hash-contract-tests/framework"
)

// RunTestSuite runs every contract test against the server described by cfg.
func RunTestSuite(
	cfg config.Config,
	filter framework.Filter,
	testLogger framework.TestLogger,
	debugLogger framework.Logger,
) framework.Results {
	if debugLogger == nil {
		debugLogger = framework.NullLogger()
	}
	env := &environment{config: cfg, logger: debugLogger}
	debugLogger.Printf("Testing server %s on %s:%d", cfg.ServerPath, cfg.Host, cfg.Port)
	return framework.Run(filter, testLogger, func(c *framework.Context) {
		t := &T{context: c, env: env}

		t.Run("single connection", DoSingleConnectionTests)
		t.Run("multiple connections", DoMultipleConnectionTests)
		t.Run("sequential lines", DoSequentialLineTests)
	})
}
