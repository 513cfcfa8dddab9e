package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plnx-tools/livetool/internal/branding"
	"github.com/plnx-tools/livetool/internal/linkspec"
)

func newVersionCmd(opts *options) *cobra.Command {
	var short, asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			b := opts.build

			if short {
				fmt.Fprintln(out, b.version)
				return nil
			}

			// The release the built-in link table targets.
			toolRelease := ""
			if table, err := linkspec.Default(); err == nil {
				toolRelease = table.Version
			}

			if asJSON {
				info := map[string]string{
					"version":      b.version,
					"commit":       b.commit,
					"date":         b.date,
					"tool_release": toolRelease,
				}
				data, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return fmt.Errorf("marshaling version info: %w", err)
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			fmt.Fprintf(out, "%s version %s (commit: %s, built: %s, %s %s)\n",
				branding.CLIName(), b.version, b.commit, b.date, branding.VendorTool(), toolRelease)
			return nil
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "Print version number only")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print version info as JSON")
	return cmd
}
