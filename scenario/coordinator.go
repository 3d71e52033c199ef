package scenario

import (
	"context"
	"errors"

	"github.com/linehash/hash-contract-tests/framework"
	"github.com/linehash/hash-contract-tests/framework/harness"
	"github.com/linehash/hash-contract-tests/session"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DriveFunc does the client side of a scenario against a running server.
type DriveFunc func(ctx context.Context, server *harness.ServerProcess) []session.Outcome

// Coordinator runs sessions against fresh server processes.
type Coordinator struct {
	server  harness.ServerParams
	session session.Params
	symbols int
	// workers limits concurrent sessions; 0 means one worker per session.
	workers int
	logger  framework.Logger
}

// NewCoordinator creates a Coordinator. A workers count of 0 or less runs every session at once.
func NewCoordinator(
	server harness.ServerParams,
	sessionParams session.Params,
	symbols int,
	workers int,
	logger framework.Logger,
) *Coordinator {
	if logger == nil {
		logger = framework.NullLogger()
	}
	return &Coordinator{
		server:  server,
		session: sessionParams,
		symbols: symbols,
		workers: workers,
		logger:  logger,
	}
}

// Run starts a server, runs one session per seed against it, and stops it.
func (c *Coordinator) Run(ctx context.Context, seeds []int64) (Result, error) {
	return c.RunWith(ctx, func(ctx context.Context, server *harness.ServerProcess) []session.Outcome {
		return c.RunSessions(ctx, server.Addr(), seeds)
	})
}

// RunWith starts a server, calls drive, and stops the server.
//
// The returned error is about the server only: a *harness.StartupError if it did not start
// (drive is not called), and/or a *harness.ShutdownError if it did not shut down cleanly.
// Session failures are in the Result.
func (c *Coordinator) RunWith(ctx context.Context, drive DriveFunc) (result Result, err error) {
	result.RunID = uuid.NewString()
	c.logger.Printf("Scenario %s: starting server", result.RunID)
	server, err := harness.StartServer(ctx, c.server, c.logger)
	if err != nil {
		return result, err
	}
	defer func() {
		stopErr := server.Stop()
		result.ExitCode = server.ExitCode()
		if stopErr != nil {
			err = errors.Join(err, stopErr)
		}
		c.logger.Printf("Scenario %s: server stopped, exit code %d", result.RunID, result.ExitCode.IntValue())
	}()

	result.Outcomes = drive(ctx, server)
	return result, nil
}

// RunSessions runs one session per seed, concurrently, and returns every outcome in seed
// order. Duplicate seeds run only once.
func (c *Coordinator) RunSessions(ctx context.Context, addr string, seeds []int64) []session.Outcome {
	seeds = uniqueSeeds(seeds)
	outcomes := make([]session.Outcome, len(seeds))

	workers := c.workers
	if workers <= 0 || workers > len(seeds) {
		workers = len(seeds)
	}
	var g errgroup.Group
	g.SetLimit(max(workers, 1))
	for i, seed := range seeds {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					outcomes[i] = session.PanicOutcome(seed, r)
				}
			}()
			outcomes[i] = session.RunGenerated(ctx, addr, seed, c.symbols, c.session)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, o := range outcomes {
		if o.Failed() {
			failed++
		}
	}
	c.logger.Printf("Ran %d sessions with %d workers against %s: %d failed", len(seeds), workers, addr, failed)
	return outcomes
}

func uniqueSeeds(seeds []int64) []int64 {
	seen := make(map[int64]struct{}, len(seeds))
	ret := make([]int64, 0, len(seeds))
	for _, s := range seeds {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		ret = append(ret, s)
	}
	return ret
}
