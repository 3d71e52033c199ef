package main

import (
	"fmt"
	"strings"

	"github.com/linehash/hash-contract-tests/config"
	"github.com/linehash/hash-contract-tests/framework"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// commandParams are the settings that only affect how results are shown. Everything about
// the server and the test run itself goes through viper into a config.Config.
type commandParams struct {
	configFile string
	filters    framework.RegexFilters
	debug      bool
	debugAll   bool
}

func (c *commandParams) addFlags(cmd *cobra.Command, v *viper.Viper) error {
	d := config.Default()
	fs := cmd.Flags()
	fs.StringVar(&c.configFile, "config", "", "optional config file (YAML, JSON, or TOML)")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")

	fs.String(config.KeyServer, d.ServerPath, "path to the server executable to test")
	fs.String(config.KeyHost, d.Host, "address the server is reached at")
	fs.Int(config.KeyPort, d.Port, "port the server is told to listen on")
	fs.Int(config.KeySymbols, d.Symbols, "number of symbols in each generated line")
	fs.Int(config.KeyConnections, d.Connections, "number of concurrent connections in the multi-connection test")
	fs.Int(config.KeyWorkers, d.Workers, "maximum concurrent sessions (0 = one per connection)")
	fs.Int(config.KeyLines, d.Lines, "number of lines sent over one connection in the sequential test")
	fs.Int64(config.KeySeed, d.Seed, "seed for the single connection tests")
	fs.Duration(config.KeyTimeout, d.Timeout, "timeout for connecting, sending, and receiving")
	fs.Int(config.KeyStartupChecks, d.StartupChecks, "number of times the server is checked for an early exit")
	fs.Duration(config.KeyStartupInterval, d.StartupInterval, "interval between startup checks")
	fs.Duration(config.KeyShutdownTimeout, d.ShutdownTimeout, "time allowed for the server to exit after an interrupt")
	fs.Int(config.KeyReplyBuffer, d.ReplyBufferSize, "maximum number of bytes read for one reply")
	fs.Int(config.KeyMaxChunk, d.MaxChunk, "maximum number of symbols in one write")
	fs.String(config.KeyReport, d.ReportPath, "write a JSON report of the results to this file")
	fs.Bool(config.KeyPretty, d.PrettyLogs, "human-readable instead of JSON harness logs")

	config.SetDefaults(v)
	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v.BindPFlags(fs)
}

// resolve produces the run's configuration from flags, environment, and config file.
func (c *commandParams) resolve(v *viper.Viper) (config.Config, error) {
	if c.configFile != "" {
		v.SetConfigFile(c.configFile)
		if err := v.ReadInConfig(); err != nil {
			return config.Config{}, fmt.Errorf("unable to read config file: %w", err)
		}
	}
	return config.Load(v)
}
