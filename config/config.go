// Package config holds the settings for a contract test run.
//
// A Config is resolved once, when the run starts, and then passed to everything that needs
// it. Nothing reads settings from global state after that.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/linehash/hash-contract-tests/framework/harness"
	"github.com/linehash/hash-contract-tests/payload"
	"github.com/linehash/hash-contract-tests/session"

	"github.com/spf13/viper"
)

// Keys for settings. These are also the command line flag names; environment variables use
// EnvPrefix, upper case, and underscores instead of dashes.
const (
	KeyServer          = "server"
	KeyHost            = "host"
	KeyPort            = "port"
	KeySymbols         = "symbols"
	KeyConnections     = "connections"
	KeyWorkers         = "workers"
	KeyLines           = "lines"
	KeySeed            = "seed"
	KeyTimeout         = "timeout"
	KeyStartupChecks   = "startup-checks"
	KeyStartupInterval = "startup-interval"
	KeyShutdownTimeout = "shutdown-timeout"
	KeyReplyBuffer     = "reply-buffer"
	KeyMaxChunk        = "max-chunk"
	KeyReport          = "report"
	KeyPretty          = "pretty"

	EnvPrefix = "HASHTEST"
)

// Config holds the settings of one run.
type Config struct {
	// ServerPath is the executable of the server under test.
	ServerPath string
	Host       string
	Port       int
	// Symbols is the length of each generated line.
	Symbols int
	// Connections is how many concurrent connections the multi-connection test opens.
	Connections int
	// Workers limits how many of those run at once; 0 means all of them.
	Workers int
	// Lines is how many lines the sequential test sends over one connection.
	Lines int
	// Seed is used by the single connection tests.
	Seed            int64
	Timeout         time.Duration
	StartupChecks   int
	StartupInterval time.Duration
	ShutdownTimeout time.Duration
	ReplyBufferSize int
	MaxChunk        int
	ReportPath      string
	PrettyLogs      bool
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Host:            "127.0.0.1",
		Port:            23,
		Symbols:         10000,
		Connections:     100,
		Lines:           10,
		Seed:            815,
		Timeout:         session.DefaultTimeout,
		StartupChecks:   harness.DefaultStartupChecks,
		StartupInterval: harness.DefaultStartupInterval,
		ShutdownTimeout: harness.DefaultShutdownTimeout,
		ReplyBufferSize: session.DefaultReplyBufferSize,
		MaxChunk:        payload.DefaultMaxChunk,
	}
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyServer, d.ServerPath)
	v.SetDefault(KeyHost, d.Host)
	v.SetDefault(KeyPort, d.Port)
	v.SetDefault(KeySymbols, d.Symbols)
	v.SetDefault(KeyConnections, d.Connections)
	v.SetDefault(KeyWorkers, d.Workers)
	v.SetDefault(KeyLines, d.Lines)
	v.SetDefault(KeySeed, d.Seed)
	v.SetDefault(KeyTimeout, d.Timeout)
	v.SetDefault(KeyStartupChecks, d.StartupChecks)
	v.SetDefault(KeyStartupInterval, d.StartupInterval)
	v.SetDefault(KeyShutdownTimeout, d.ShutdownTimeout)
	v.SetDefault(KeyReplyBuffer, d.ReplyBufferSize)
	v.SetDefault(KeyMaxChunk, d.MaxChunk)
	v.SetDefault(KeyReport, d.ReportPath)
	v.SetDefault(KeyPretty, d.PrettyLogs)
}

// Load reads a Config from v and validates it.
func Load(v *viper.Viper) (Config, error) {
	c := Config{
		ServerPath:      v.GetString(KeyServer),
		Host:            v.GetString(KeyHost),
		Port:            v.GetInt(KeyPort),
		Symbols:         v.GetInt(KeySymbols),
		Connections:     v.GetInt(KeyConnections),
		Workers:         v.GetInt(KeyWorkers),
		Lines:           v.GetInt(KeyLines),
		Seed:            v.GetInt64(KeySeed),
		Timeout:         v.GetDuration(KeyTimeout),
		StartupChecks:   v.GetInt(KeyStartupChecks),
		StartupInterval: v.GetDuration(KeyStartupInterval),
		ShutdownTimeout: v.GetDuration(KeyShutdownTimeout),
		ReplyBufferSize: v.GetInt(KeyReplyBuffer),
		MaxChunk:        v.GetInt(KeyMaxChunk),
		ReportPath:      v.GetString(KeyReport),
		PrettyLogs:      v.GetBool(KeyPretty),
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate reports every setting that cannot be used.
func (c Config) Validate() error {
	var errs []error
	if c.ServerPath == "" {
		errs = append(errs, errors.New("--server is required"))
	}
	if c.Host == "" {
		errs = append(errs, errors.New("host must not be empty"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d is out of range", c.Port))
	}
	for _, p := range []struct {
		name  string
		value int
	}{
		{KeyConnections, c.Connections},
		{KeyLines, c.Lines},
		{KeyStartupChecks, c.StartupChecks},
		{KeyReplyBuffer, c.ReplyBufferSize},
		{KeyMaxChunk, c.MaxChunk},
	} {
		if p.value <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, was %d", p.name, p.value))
		}
	}
	if c.Symbols < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative, was %d", KeySymbols, c.Symbols))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative, was %d", KeyWorkers, c.Workers))
	}
	for _, p := range []struct {
		name  string
		value time.Duration
	}{
		{KeyTimeout, c.Timeout},
		{KeyStartupInterval, c.StartupInterval},
		{KeyShutdownTimeout, c.ShutdownTimeout},
	} {
		if p.value <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, was %s", p.name, p.value))
		}
	}
	return errors.Join(errs...)
}

// ServerParams describes how to launch the server under test.
func (c Config) ServerParams() harness.ServerParams {
	return harness.ServerParams{
		Executable:      c.ServerPath,
		Host:            c.Host,
		Port:            c.Port,
		StartupChecks:   c.StartupChecks,
		StartupInterval: c.StartupInterval,
		ShutdownTimeout: c.ShutdownTimeout,
	}
}

// SessionParams describes how sessions talk to the server.
func (c Config) SessionParams() session.Params {
	return session.Params{Timeout: c.Timeout, ReplyBufferSize: c.ReplyBufferSize, MaxChunk: c.MaxChunk}
}

// ConnectionSeeds are the seeds for the multi-connection test: 1 through Connections.
func (c Config) ConnectionSeeds() []int64 {
	seeds := make([]int64, c.Connections)
	for i := range seeds {
		seeds[i] = int64(i + 1)
	}
	return seeds
}
