package cmd

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	embedded "github.com/semihalev/go-duckdb-embedded"
)

func newExecCommand(cfg *embedded.Config, stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "exec [SQL]",
		Short: "Run SQL statements and print their results.",
		Long: `exec runs the semicolon separated statements given as argument, read
from --file, or read from stdin when neither is given, and prints each
result. Execution stops at the first failing statement.
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			script, err := readScript(args, file, stdin)
			if err != nil {
				return err
			}
			stmts := splitStatements(script)
			if len(stmts) == 0 {
				return errors.New("no statements to run")
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			db, err := openDatabase(ctx, cfg, stderr)
			if err != nil {
				return err
			}
			defer db.close()

			for _, stmt := range stmts {
				if err := db.run(ctx, stmt, stdout); err != nil {
					return errors.Wrapf(err, "running %q", stmt)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read statements from this file.")
	return cmd
}

func readScript(args []string, file string, stdin io.Reader) (string, error) {
	switch {
	case len(args) == 1 && file != "":
		return "", errors.New("give statements either as argument or with --file, not both")
	case len(args) == 1:
		return args[0], nil
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return "", errors.Wrap(err, "reading script")
		}
		return string(b), nil
	}
	var sb strings.Builder
	if _, err := io.Copy(&sb, stdin); err != nil {
		return "", errors.Wrap(err, "reading stdin")
	}
	return sb.String(), nil
}
