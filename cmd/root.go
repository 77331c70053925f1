// Package cmd contains the embeddb command line: running SQL against the
// embedded database, an interactive shell and config generation.
package cmd

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	embedded "github.com/semihalev/go-duckdb-embedded"
)

const envPrefix = "EMBEDDB"

// NewRootCommand returns the embeddb command with all its subcommands.
func NewRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cfg := embedded.NewConfig()
	rc := &cobra.Command{
		Use:   "embeddb",
		Short: "Run SQL against an embedded database.",
		Long: `embeddb runs SQL against an embedded DuckDB database, either in memory or
stored in a directory, one statement list at a time or from an interactive
shell.

Every flag can also be given in a TOML file passed with --config, or in an
environment variable named EMBEDDB_ followed by the flag name in capitals,
with dashes replaced by underscores.

` + "embeddb " + embedded.LibraryVersion.String() + "\n",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			if err := setAllConfig(v, cmd.Flags()); err != nil {
				return err
			}
			return cfg.Validate()
		},
	}
	flags := rc.PersistentFlags()
	flags.StringP("config", "c", "", "Configuration file to read from.")
	flags.StringVarP(&cfg.Directory, "directory", "d", cfg.Directory, "Database directory, or :memory: for an in-memory database.")
	flags.BoolVar(&cfg.Quiet, "quiet", cfg.Quiet, "Log database start and stop at debug level only.")
	flags.BoolVar(&cfg.Sequential, "sequential", cfg.Sequential, "Run queries on a single thread.")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: trace, debug, info, warn or error.")
	flags.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: text or json.")

	rc.AddCommand(newExecCommand(cfg, stdin, stdout, stderr))
	rc.AddCommand(newShellCommand(cfg, stdin, stdout, stderr))
	rc.AddCommand(newGenerateConfigCommand(stdout))
	rc.AddCommand(newVersionCommand(cfg, stdout, stderr))

	rc.SetOut(stdout)
	rc.SetErr(stderr)
	return rc
}

// setAllConfig fills every flag of flags that was not set on the command
// line from, in order, the environment and the config file named by the
// config flag. Environment variables are the flag names in capitals with
// dashes replaced by underscores, prefixed with EMBEDDB_.
func setAllConfig(v *viper.Viper, flags *pflag.FlagSet) error {
	if err := v.BindPFlags(flags); err != nil {
		return err
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	validTags := make(map[string]bool)
	flags.VisitAll(func(f *pflag.Flag) {
		validTags[f.Name] = true
	})

	if c := v.GetString("config"); c != "" {
		v.SetConfigFile(c)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "reading configuration file '%s'", c)
		}
		for _, key := range v.AllKeys() {
			if !validTags[key] {
				return errors.Errorf("invalid option in configuration file: %v", key)
			}
		}
	}

	var flagErr error
	flags.VisitAll(func(f *pflag.Flag) {
		if flagErr != nil || f.Changed {
			return
		}
		flagErr = f.Value.Set(v.GetString(f.Name))
	})
	return flagErr
}
