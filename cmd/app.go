package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mpawlak/skillatlas/internal/ai/gemini"
	"github.com/mpawlak/skillatlas/internal/assignment"
	"github.com/mpawlak/skillatlas/internal/logger"
	"github.com/mpawlak/skillatlas/internal/processor"
	"github.com/mpawlak/skillatlas/internal/profile"
	"github.com/mpawlak/skillatlas/internal/secrets"
	"github.com/mpawlak/skillatlas/internal/storage"
	"github.com/mpawlak/skillatlas/internal/taxonomy"
)

// application bundles everything the commands operate on.
type application struct {
	config      *Config
	logger      *zap.Logger
	generator   *gemini.Generator
	profiles    *profile.List
	taxonomy    *taxonomy.Store
	assignments *assignment.Index
	processor   *processor.Processor
}

// newApplication builds the logger, config, stores and gateway shared by the
// commands. Any failure here is fatal: there is nothing useful to do without
// them.
func newApplication(ctx context.Context) *application {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	apiKey, err := resolveAPIKey(config)
	if err != nil {
		logger.Fatal(
			"loading gemini api key",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY, GEMINI_API_KEY_FILE or the 'ai.gemini' keys in the configuration file"),
		)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey,
		config.AI.Gemini.Model,
		config.AI.Gemini.EmbeddingModel,
		config.AI.Gemini.MaxRetries,
		logger,
	)
	if err != nil {
		logger.Fatal("creating gemini generator", zap.Error(err))
	}

	profiles, err := profile.Open(storage.NewDocument(config.Storage.ProfilesFile))
	if err != nil {
		logger.Warn("loading profiles, starting empty", zap.Error(err))
	}

	tax := taxonomy.Open(
		storage.NewDocument(config.Storage.TaxonomyFile),
		config.Taxonomy.SimilarityThreshold,
		logger,
	)
	assignments := assignment.Open(storage.NewDocument(config.Storage.AssignmentsFile), logger)

	extractor := gemini.NewExtractor(generator, config.AI.Gemini.MaxLogLength, logger)
	classifier := gemini.NewClassifier(generator, config.AI.Gemini.MaxLogLength, logger)

	return &application{
		config:      config,
		logger:      logger,
		generator:   generator,
		profiles:    profiles,
		taxonomy:    tax,
		assignments: assignments,
		processor:   processor.New(extractor, classifier, tax, assignments, logger),
	}
}

func resolveAPIKey(config *Config) (string, error) {
	if config == nil || config.AI == nil || config.AI.Gemini == nil {
		return "", fmt.Errorf("ai.gemini configuration is required")
	}

	provider := strings.TrimSpace(strings.ToLower(config.AI.Provider))
	if provider != "" && provider != "gemini" {
		return "", fmt.Errorf("unsupported ai provider: %s", config.AI.Provider)
	}

	apiKey := strings.TrimSpace(config.AI.Gemini.APIKey)
	if apiKey == "" {
		apiKey = strings.TrimSpace(viper.GetString("ai.gemini.api-key"))
	}

	keyFile := strings.TrimSpace(config.AI.Gemini.APIKeyFile)
	if keyFile == "" {
		keyFile = strings.TrimSpace(viper.GetString("ai.gemini.api-key-file"))
	}

	return secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: apiKey,
		File:  keyFile,
	})
}

// printState pretty-prints the current taxonomy and assignments, matching
// the report a batch run ends with.
func (a *application) printState() {
	taxJSON, err := marshalIndent(a.taxonomy.Document())
	if err == nil {
		fmt.Printf("Updated categories:\n%s\n", taxJSON)
	}

	assignJSON, err := marshalIndent(a.assignments.Data())
	if err == nil {
		fmt.Printf("Assignments:\n%s\n", assignJSON)
	}
}

func marshalIndent(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
