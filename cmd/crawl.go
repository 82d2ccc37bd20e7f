package cmd

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"syscall"

	"os/signal"

	"github.com/talentsift/assessrec/internal/crawler"
	"github.com/talentsift/assessrec/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const defaultCrawlOutput = "assessments.json"

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Scrape the public product catalog into a local artifact",
	Run: func(_ *cobra.Command, _ []string) {
		crawl()
	},
}

func init() {
	rootCmd.AddCommand(crawlCmd)

	crawlCmd.Flags().StringP("output", "o", "", "path for the catalog artifact. Overrides crawler.output from the config.")

	viper.BindPFlag("crawler.output", crawlCmd.Flags().Lookup("output"))
}

func crawl() {
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

	output := defaultCrawlOutput
	if config.Crawler != nil && config.Crawler.Output != "" {
		output = config.Crawler.Output
	}

	client := crawler.New(config.Crawler, logger.With(zap.String("component", "crawler")))

	records, err := client.Crawl(ctx)
	if err != nil {
		logger.Fatal("crawling catalog", zap.Error(err))
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		logger.Fatal("encoding catalog artifact", zap.Error(err))
	}

	if err := os.WriteFile(output, data, 0o644); err != nil {
		logger.Fatal("writing catalog artifact", zap.Error(err))
	}

	logger.Info("catalog artifact written",
		zap.String("path", output),
		zap.Int("records", len(records)),
	)
}
