package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mpawlak/skillatlas/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search people by free-text query over the assignment index",
	Args:  cobra.MaximumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		runSearch(args)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearch(args []string) {
	ctx := context.Background()

	a := newApplication(ctx)

	docs := a.assignments.Flatten()
	if len(docs) == 0 {
		a.logger.Info("exiting", zap.String("reason", "no assignments to index"))
		return
	}

	a.logger.Info("indexing documents", zap.Int("count", len(docs)))

	index, err := search.Build(ctx, a.generator, docs)
	if err != nil {
		a.logger.Fatal("building search index", zap.Error(err))
	}

	query := ""
	if len(args) == 1 {
		query = strings.TrimSpace(args[0])
	}

	if query != "" {
		if err := runQuery(ctx, a, index, query); err != nil {
			a.logger.Fatal("searching", zap.Error(err))
		}
		return
	}

	// No positional query: keep prompting until the user bails out.
	for {
		prompt := promptui.Prompt{Label: "Query (empty to exit)"}
		input, err := prompt.Run()
		if err != nil {
			return
		}

		input = strings.TrimSpace(input)
		if input == "" {
			return
		}

		if err := runQuery(ctx, a, index, input); err != nil {
			a.logger.Fatal("searching", zap.Error(err))
		}
	}
}

func runQuery(ctx context.Context, a *application, index *search.Index, query string) error {
	results, err := index.Search(ctx, a.generator, query, a.config.Search.TopK)
	if err != nil {
		return err
	}

	pretty, err := marshalIndent(results)
	if err != nil {
		return err
	}

	fmt.Printf("Query results:\n%s\n", pretty)
	return nil
}
