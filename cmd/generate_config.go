package cmd

import (
	"fmt"
	"io"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	embedded "github.com/semihalev/go-duckdb-embedded"
)

func newGenerateConfigCommand(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "generate-config",
		Short: "Print the default configuration.",
		Long: `generate-config prints the default configuration to stdout
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ret, err := toml.Marshal(*embedded.NewConfig())
			if err != nil {
				return errors.Wrap(err, "marshalling default config")
			}
			fmt.Fprintf(stdout, "%s\n", ret)
			return nil
		},
	}
}
