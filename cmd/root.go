package cmd

import (
	"errors"
	"log"

	"github.com/talentsift/assessrec/internal/crawler"
	"github.com/talentsift/assessrec/internal/server"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "assessrec"
)

type Config struct {
	CatalogFile string          `mapstructure:"catalog-file"`
	Server      *server.Config  `mapstructure:"server"`
	Crawler     *crawler.Config `mapstructure:"crawler"`
	AI          *AIConfig       `mapstructure:"ai"`
}

type AIConfig struct {
	// MinimumSimilarity drops resolved recommendations below the given
	// name-similarity ratio. 0 keeps every best-effort match.
	MinimumSimilarity float64       `mapstructure:"minimum-similarity"`
	MaxLogLength      int           `mapstructure:"max-log-length"`
	Gemini            *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max-retries"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "assessrec recommends catalogued assessments for a job requirement described in free text",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// A local .env is a convenient place for GEMINI_API_KEY during development.
	_ = godotenv.Load()

	if err := viper.BindEnv("ai.gemini.api-key", "GEMINI_API_KEY"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY environment variable: %v", err)
	}

	if err := viper.BindEnv("catalog-file", "ASSESSREC_CATALOG"); err != nil {
		log.Fatalf("binding ASSESSREC_CATALOG environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is assessrec.yaml in current directory)")
	rootCmd.PersistentFlags().String("catalog", "", "path to the catalog artifact. Overrides catalog-file from the config.")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("catalog-file", rootCmd.PersistentFlags().Lookup("catalog"))
	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		// Missing default config is fine: flags and environment can carry
		// everything. An explicitly requested or unparseable file is not.
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}

	return config, nil
}
