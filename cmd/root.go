// Copyright © 2018 The ELPS authors

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "QRCA"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "qrca",
	Short: "Runtime capabilities analysis for quantum programs",
	Long: `qrca analyzes compiled quantum programs and reports which runtime
capabilities a target must provide to execute them.

Programs are read as YAML package stores: the flattened, typed
intermediate representation produced by the compiler front end.

Getting started:
  qrca analyze store.yaml                   Show compute properties per callable
  qrca check --target adaptive store.yaml   Check a program against a profile
  qrca check --target base ./...            Check every store under a directory
  qrca features                             Describe every runtime feature
  qrca profiles                             List the target profiles
  qrca guide                                Describe the store file format

Configuration is read from $HOME/.qrca.yaml and from QRCA_ environment
variables (for example QRCA_TARGET=adaptive_rif).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// ExitError carries a process exit code out of a command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// usageError wraps err as a bad invocation.
func usageError(err error) error {
	return &ExitError{Code: 2, Err: err}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	os.Exit(run(rootCmd, os.Stderr))
}

func run(cmd *cobra.Command, stderr io.Writer) int {
	err := cmd.Execute()
	if err == nil {
		return 0
	}
	var exit *ExitError
	if errors.As(err, &exit) {
		if exit.Err != nil {
			fmt.Fprintln(stderr, "qrca:", exit.Err) //nolint:errcheck // best-effort output
		}
		return exit.Code
	}
	fmt.Fprintln(stderr, "qrca:", err) //nolint:errcheck // best-effort output
	return 2
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.qrca.yaml)")
	flags.String("color", "auto", `Control colored output: "auto", "always", or "never".`)
	flags.String("log-level", "warn", `Log level: "debug", "info", "warn", or "error".`)
	mustBind(rootCmd, "color", "log-level")

	rootCmd.AddCommand(
		AnalyzeCommand(),
		CheckCommand(),
		FeaturesCommand(),
		GuideCommand(),
		ProfilesCommand(),
	)
}

// mustBind binds persistent or local flags of cmd to viper keys of the
// same name.
func mustBind(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		flag := cmd.PersistentFlags().Lookup(name)
		if flag == nil {
			flag = cmd.Flags().Lookup(name)
		}
		if flag == nil {
			panic("cmd: no flag " + name)
		}
		if err := viper.BindPFlag(name, flag); err != nil {
			panic(err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigName(".qrca")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "qrca: reading config:", err) //nolint:errcheck // best-effort output
		}
		return
	}
	slog.Debug("using config file", "path", viper.ConfigFileUsed())
}

// newLogger returns a text logger writing to w at the named level.
func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})), nil
}
