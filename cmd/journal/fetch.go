package main

import (
	"fmt"

	"github.com/deppfellow/operator-journal/internal/config"
	"github.com/deppfellow/operator-journal/internal/lib/newsletter"
	"github.com/deppfellow/operator-journal/internal/lib/utils"
	"github.com/deppfellow/operator-journal/internal/logger"
	"github.com/deppfellow/operator-journal/internal/metrics"
	"github.com/deppfellow/operator-journal/internal/repository"
	"github.com/deppfellow/operator-journal/internal/server"
	"github.com/deppfellow/operator-journal/internal/service"
	"github.com/spf13/cobra"
)

var fetchLimit int

var fetchCmd = &cobra.Command{
	Use:       "fetch beehiiv|kit",
	Short:     "Run one feed proxy and print its JSON",
	Long:      "fetch calls the provider directly, without the cache, and prints what the feed endpoint would return.",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{newsletter.ProviderBeehiiv, newsletter.ProviderKit},
	RunE:      runFetch,
}

func init() {
	fetchCmd.Flags().IntVar(&fetchLimit, "limit", 0, "maximum number of items (0 uses the endpoint default)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	log := logger.NewLoggerWithService(cfg.Observability, nil)

	// No Redis and no job worker: the command only talks to the provider.
	srv := &server.Server{
		Config:        cfg,
		Logger:        &log,
		LoggerService: &logger.LoggerService{},
		Metrics:       metrics.New(),
		HTTPClient:    newsletter.NewHTTPClient(cfg.Newsletter),
	}

	services, err := service.NewService(srv, repository.NewRepositories(srv))
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	var result interface{}
	switch args[0] {
	case newsletter.ProviderBeehiiv:
		result, err = services.Feed.Beehiiv(ctx, fetchLimit)
	case newsletter.ProviderKit:
		result, err = services.Feed.Kit(ctx, fetchLimit)
	default:
		return fmt.Errorf("unknown provider %q", args[0])
	}
	if err != nil {
		return err
	}

	return utils.PrintJSON(cmd.OutOrStdout(), result)
}
