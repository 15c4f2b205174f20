package cli

import (
	"fmt"
	"net/http"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pension-webhook/internal/lookup"
)

func newResolveCommand(opts *options) *cobra.Command {
	var namePattern string

	cmd := &cobra.Command{
		Use:   "resolve <utterance>...",
		Short: "Answer utterances against the dataset",
		Long: `Answer one or more utterances exactly as the webhook would and print the
reply text with its HTTP status.

Example:
  dataset-tool resolve 홍길동10999999 김철수10888888`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if namePattern == "" {
				namePattern = cfg.Lookup.NamePattern
			}
			normalizer, err := lookup.NewNormalizer(namePattern)
			if err != nil {
				return err
			}

			table, err := opts.loadTable(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			service := lookup.NewService(normalizer, lookup.NewResolver(table))

			ok := color.New(color.FgGreen).SprintFunc()
			warn := color.New(color.FgYellow).SprintFunc()
			fail := color.New(color.FgRed).SprintFunc()

			for _, utterance := range args {
				_, result, err := service.Check(cmd.Context(), utterance)
				text, status := lookup.Format(result, err)
				outcome := lookup.Outcome(result, err)

				label := ok(outcome)
				switch {
				case status >= http.StatusInternalServerError:
					label = fail(outcome)
				case status >= http.StatusBadRequest:
					label = warn(outcome)
				}
				fmt.Fprintf(out, "%s  [%d %s]\n  %s\n", utterance, status, label, text)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&namePattern, "name-pattern", "", "Override lookup.name_pattern")
	return cmd
}
