package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	embedded "github.com/semihalev/go-duckdb-embedded"
)

func newVersionCommand(cfg *embedded.Config, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the library and engine versions.",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(stdout, "embeddb %s\n", embedded.LibraryVersion)

			// the engine version needs a running instance
			memCfg := *cfg
			memCfg.Directory = embedded.MemoryLocation
			memCfg.Quiet = true
			db, err := openDatabase(cmd.Context(), &memCfg, stderr)
			if err != nil {
				return err
			}
			defer db.close()

			v, err := db.manager.EngineVersion()
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "engine %s\n", v)
			return nil
		},
	}
}
