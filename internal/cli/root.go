// Package cli implements dataset-tool, an offline companion to the webhook
// that loads the configured dataset and answers utterances without HTTP.
package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pension-webhook/internal/common/config"
	"pension-webhook/internal/dataset"
)

type options struct {
	configPath string
	source     string
	path       string
	url        string
	noColor    bool
}

// NewRootCommand builds the dataset-tool command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "dataset-tool",
		Short: "Inspect the pension enrollment dataset",
		Long: `dataset-tool loads the enrollment dataset the same way the webhook server
does and either reports what it loaded or answers utterances against it.

Configuration is read from configs/config.yaml (or --config); the source
flags override the configured dataset source.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to a config file (default: configs/config.yaml lookup)")
	flags.StringVar(&opts.source, "source", "", "Override dataset.source (static, csv_url, csv_file, postgres, redis, elasticsearch)")
	flags.StringVar(&opts.path, "file", "", "CSV file to load; implies --source csv_file")
	flags.StringVar(&opts.url, "url", "", "CSV URL to load; implies --source csv_url")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	root.AddCommand(newValidateCommand(opts), newResolveCommand(opts))
	return root
}

// Execute runs the root command
func Execute() error {
	return NewRootCommand().Execute()
}

func (o *options) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFromFile(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	switch {
	case o.path != "":
		cfg.Dataset.Source = config.SourceCSVFile
		cfg.Dataset.Path = o.path
	case o.url != "":
		cfg.Dataset.Source = config.SourceCSVURL
		cfg.Dataset.URL = o.url
	case o.source != "":
		cfg.Dataset.Source = o.source
	}
	return cfg, nil
}

func (o *options) loadTable(ctx context.Context, cfg *config.Config) (*dataset.Table, error) {
	ctx, cancel := context.WithTimeout(ctx, config.GetDuration(cfg.Dataset.LoadTimeout))
	defer cancel()

	clients, err := dataset.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer clients.Close()

	src, err := dataset.NewSource(cfg.Dataset, clients)
	if err != nil {
		return nil, err
	}
	table, err := dataset.Load(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("load %s dataset: %w", src.Name(), err)
	}
	return table, nil
}
