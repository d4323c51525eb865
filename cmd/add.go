package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mpawlak/skillatlas/internal/profile"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new profile interactively and process it",
	Run: func(_ *cobra.Command, _ []string) {
		runAdd()
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}

func runAdd() {
	ctx := context.Background()

	a := newApplication(ctx)

	prof, err := collectProfile()
	if err != nil {
		a.logger.Fatal("collecting profile", zap.Error(err))
	}

	if err := a.profiles.Add(prof); err != nil {
		a.logger.Fatal("adding profile", zap.Error(err))
	}

	a.logger.Info("profile added",
		zap.String("name", prof.FullName()),
		zap.Int("profiles_total", a.profiles.Len()),
	)

	report := a.processor.Process(ctx, []profile.Profile{prof})

	fmt.Println("Processing log:")
	for _, line := range report {
		fmt.Println(line)
	}

	a.printState()
}

func collectProfile() (profile.Profile, error) {
	var prof profile.Profile

	required := func(field string) func(string) error {
		return func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New(field + " must not be empty")
			}
			return nil
		}
	}

	fields := []struct {
		label  string
		target *string
	}{
		{"First name", &prof.Name},
		{"Last name", &prof.Surname},
		{"Skill description", &prof.Description},
	}

	for _, field := range fields {
		prompt := promptui.Prompt{
			Label:    field.label,
			Validate: required(field.label),
		}

		value, err := prompt.Run()
		if err != nil {
			return prof, err
		}
		*field.target = strings.TrimSpace(value)
	}

	return prof, nil
}
