package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"

	"os/signal"

	"github.com/talentsift/assessrec/internal/catalog"
	"github.com/talentsift/assessrec/internal/logger"
	"github.com/talentsift/assessrec/internal/recommend"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const descriptionPreviewLength = 160

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Recommend assessments interactively from the terminal",
}

func init() {
	askCmd.Run = func(_ *cobra.Command, _ []string) {
		ask()
	}

	rootCmd.AddCommand(askCmd)

	askCmd.Flags().IntP("max-results", "n", recommend.DefaultMaxResults, "maximum number of recommendations per question")
}

func ask() {
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

	provider := catalog.NewProvider(store, logger)

	rec, err := buildRecommender(ctx, config, provider, logger)
	if err != nil {
		logger.Fatal(
			"building recommender",
			zap.Error(err),
			zap.String("hint", "set ai.gemini.api-key-file in the configuration file or the GEMINI_API_KEY environment variable"),
		)
	}

	maxResults, _ := askCmd.Flags().GetInt("max-results")

	query := promptui.Prompt{
		Label: "Job requirements (or 'exit')",
	}

	for {
		text, err := query.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return
			}
			logger.Fatal("reading prompt", zap.Error(err))
		}

		text = strings.TrimSpace(text)
		switch strings.ToLower(text) {
		case "exit", "quit":
			return
		case "":
			fmt.Println("Please enter a job description or requirement.")
			continue
		}

		printResults(rec.Recommend(ctx, text, maxResults))

		if ctx.Err() != nil {
			return
		}
	}
}

func printResults(records []*catalog.Assessment) {
	if len(records) == 0 {
		fmt.Println("No matching assessments found. Try broadening your search.")
		return
	}

	for i, record := range records {
		fmt.Printf("%d. %s\n", i+1, record.Name)
		fmt.Printf("   URL: %s\n", record.URL)
		fmt.Printf("   Duration: %s mins | Types: %s\n",
			record.DurationLabel(), strings.Join(record.TestType, ", "))
		fmt.Printf("   %s\n", logger.TruncateForLog(record.Description, descriptionPreviewLength))
	}
}
