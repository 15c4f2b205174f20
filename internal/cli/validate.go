package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	apperrors "pension-webhook/internal/common/errors"
)

func newValidateCommand(opts *options) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Load the dataset and report problems",
		Long: `Load the configured dataset, validate every row and check that each
(name, id) pair is unique. Exits non-zero on the first problem.

Example:
  dataset-tool validate --file data/enrollments.csv --list`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			table, err := opts.loadTable(cmd.Context(), cfg)
			if err != nil {
				red := color.New(color.FgRed, color.Bold)
				red.Fprintf(out, "✗ dataset invalid\n")
				if stdErr := apperrors.Normalize(err); stdErr != nil {
					fmt.Fprintf(out, "  code:    %s\n", stdErr.Code)
					if stdErr.Details != "" {
						fmt.Fprintf(out, "  details: %s\n", stdErr.Details)
					}
				}
				return err
			}

			green := color.New(color.FgGreen)
			green.Fprintf(out, "✓ %d records loaded from %s\n", table.Len(), table.Source())

			if list {
				fmt.Fprintln(out)
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "NAME\tID\tSTATUS\tBROKERAGE")
				for _, rec := range table.Records() {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", rec.Name, rec.EmployeeID, rec.Status, rec.Brokerage)
				}
				tw.Flush()
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "Print every loaded record")
	return cmd
}
