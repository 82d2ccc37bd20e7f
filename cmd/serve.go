package cmd

import (
	"context"
	"log"
	"os"
	"strings"
	"syscall"

	"os/signal"

	"github.com/talentsift/assessrec/internal/ai/gemini"
	"github.com/talentsift/assessrec/internal/catalog"
	"github.com/talentsift/assessrec/internal/logger"
	"github.com/talentsift/assessrec/internal/recommend"
	"github.com/talentsift/assessrec/internal/secrets"
	"github.com/talentsift/assessrec/internal/server"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the recommendation API and the form UI",
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolP("watch", "w", false, "reload the catalog when the artifact changes on disk")
}

func serve(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting assessrec", zap.String("version", version))

	catalogFile := resolveCatalogFile(config)
	if catalogFile == "" {
		logger.Fatal(
			"catalog artifact path is required",
			zap.String("hint", "set the 'catalog-file' key in the configuration file or the ASSESSREC_CATALOG environment variable"),
		)
	}

	store, err := catalog.Load(catalogFile)
	if err != nil {
		logger.Fatal("loading catalog", zap.Error(err))
	}

	logger.Info("catalog loaded",
		zap.String("path", catalogFile),
		zap.Int("records", store.Len()),
	)

	provider := catalog.NewProvider(store, logger)

	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		go func() {
			if err := provider.Watch(ctx.Done(), catalogFile); err != nil {
				logger.Warn("catalog watch stopped", zap.Error(err))
			}
		}()
	}

	rec, err := buildRecommender(ctx, config, provider, logger)
	if err != nil {
		logger.Fatal(
			"building recommender",
			zap.Error(err),
			zap.String("hint", "set ai.gemini.api-key-file in the configuration file or the GEMINI_API_KEY environment variable"),
		)
	}

	srv := server.New(config.Server, rec, logger)
	if err := srv.Run(ctx); err != nil {
		logger.Fatal("http server failed", zap.Error(err))
	}

	logger.Info("exiting")
}

func resolveCatalogFile(config *Config) string {
	catalogFile := strings.TrimSpace(config.CatalogFile)
	if catalogFile == "" {
		catalogFile = strings.TrimSpace(viper.GetString("catalog-file"))
	}
	return catalogFile
}

func buildRecommender(ctx context.Context, config *Config, provider *catalog.Provider, log *zap.Logger) (*recommend.Recommender, error) {
	gem := config.AI.Gemini

	apiKey := gem.APIKey
	if strings.TrimSpace(apiKey) == "" {
		apiKey = viper.GetString("ai.gemini.api-key")
	}

	key, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: apiKey,
		File:  gem.APIKeyFile,
	})
	if err != nil {
		return nil, err
	}

	genLogger := log.With(
		zap.String("provider", "gemini"),
		zap.String("model", gem.Model),
	)

	generator, err := gemini.NewGenerator(ctx, key, gem.Model, gem.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	return recommend.New(
		provider,
		generator,
		config.AI.MinimumSimilarity,
		config.AI.MaxLogLength,
		log.With(zap.String("component", "recommender")),
	), nil
}
