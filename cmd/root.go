package cmd

import (
	"errors"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "skillatlas"

	defaultTaxonomyFile    = "categories.json"
	defaultAssignmentsFile = "assignment.json"
	defaultProfilesFile    = "profiles.json"
	defaultTopK            = 5
)

type Config struct {
	Storage  *StorageConfig  `mapstructure:"storage"`
	Taxonomy *TaxonomyConfig `mapstructure:"taxonomy"`
	Search   *SearchConfig   `mapstructure:"search"`
	AI       *AIConfig       `mapstructure:"ai"`
}

type StorageConfig struct {
	TaxonomyFile    string `mapstructure:"taxonomy-file"`
	AssignmentsFile string `mapstructure:"assignments-file"`
	ProfilesFile    string `mapstructure:"profiles-file"`
}

type TaxonomyConfig struct {
	SimilarityThreshold float64 `mapstructure:"similarity-threshold"`
}

type SearchConfig struct {
	TopK int `mapstructure:"top-k"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey         string `mapstructure:"api-key"`
	APIKeyFile     string `mapstructure:"api-key-file"`
	Model          string `mapstructure:"model"`
	EmbeddingModel string `mapstructure:"embedding-model"`
	MaxRetries     int    `mapstructure:"max-retries"`
	MaxLogLength   int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "skillatlas classifies free-text skill profiles into a taxonomy and makes them searchable",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key", "GEMINI_API_KEY"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY environment variable: %v", err)
	}
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is skillatlas.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// The config file is optional: every key has a default and the api key
	// can come from the environment.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	config.applyDefaults()

	return config, nil
}

func (c *Config) applyDefaults() {
	if c.Storage == nil {
		c.Storage = &StorageConfig{}
	}
	if c.Storage.TaxonomyFile == "" {
		c.Storage.TaxonomyFile = defaultTaxonomyFile
	}
	if c.Storage.AssignmentsFile == "" {
		c.Storage.AssignmentsFile = defaultAssignmentsFile
	}
	if c.Storage.ProfilesFile == "" {
		c.Storage.ProfilesFile = defaultProfilesFile
	}

	if c.Taxonomy == nil {
		c.Taxonomy = &TaxonomyConfig{}
	}

	if c.Search == nil {
		c.Search = &SearchConfig{}
	}
	if c.Search.TopK <= 0 {
		c.Search.TopK = defaultTopK
	}

	if c.AI == nil {
		c.AI = &AIConfig{}
	}
	if c.AI.Gemini == nil {
		c.AI.Gemini = &GeminiConfig{}
	}
}
