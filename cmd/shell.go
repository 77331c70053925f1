package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	embedded "github.com/semihalev/go-duckdb-embedded"
)

const (
	promptBegin = "embeddb> "
	promptMid   = "     ..> "
	exitCommand = `\q`
)

func newShellCommand(cfg *embedded.Config, stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var historyPath string
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive SQL shell.",
		Long: `shell reads statements terminated by a semicolon and prints their
results. Enter \q to leave.
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase(cmd.Context(), cfg, stderr)
			if err != nil {
				return err
			}
			defer db.close()

			rl, err := readline.NewEx(&readline.Config{
				Prompt:       promptBegin,
				HistoryFile:  historyPath,
				HistoryLimit: 10000,

				Stdin:  io.NopCloser(stdin),
				Stdout: stdout,
				Stderr: stderr,
			})
			if err != nil {
				return errors.Wrap(err, "getting readline")
			}
			defer rl.Close()

			return runShell(cmd.Context(), rl, db, stdout, stderr)
		},
	}
	cmd.Flags().StringVar(&historyPath, "history", defaultHistoryPath(), "File the shell history is kept in.")
	return cmd
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".embeddb_history")
}

// lineReader is the part of readline the shell loop uses.
type lineReader interface {
	Readline() (string, error)
	SetPrompt(string)
}

func runShell(ctx context.Context, rl lineReader, db *database, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	var s splitter
	for {
		if s.pending() != "" {
			rl.SetPrompt(promptMid)
		} else {
			rl.SetPrompt(promptBegin)
		}

		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			// drop the unfinished statement
			s = splitter{}
			continue
		} else if err == io.EOF {
			return nil
		} else if err != nil {
			return errors.Wrap(err, "reading line")
		}

		if s.pending() == "" && strings.TrimSpace(line) == exitCommand {
			return nil
		}

		for _, stmt := range s.feed(line + "\n") {
			if err := db.run(ctx, stmt, stdout); err != nil {
				fmt.Fprintf(stderr, "Error: %v\n", err)
			}
		}
	}
}
