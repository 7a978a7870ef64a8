package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/giygas/interactions-checker/checker"
	"github.com/giygas/interactions-checker/client"
	"github.com/giygas/interactions-checker/entities"
	"github.com/giygas/interactions-checker/logging"
	"github.com/giygas/interactions-checker/surface"
	"github.com/spf13/cobra"
)

var errNoMatch = errors.New("no match found")

// newCommandClient prepares a one-shot client and quiet logging for the
// commands that talk to the service directly
func newCommandClient(cmd *cobra.Command) (*client.Client, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logging.InitLoggerWithConfig(logging.Options{
		Env:     cfg.Env,
		Level:   "warn",
		Console: cmd.ErrOrStderr(),
	})
	return client.NewClient(cfg.ServiceURL, cfg.ProbeTerm), nil
}

func newCheckCommand() *cobra.Command {
	var in entities.Inputs

	command := &cobra.Command{
		Use:   "check",
		Short: "Check a prescribed drug for interactions",
		Long: `Validates the prescribed drug, the condition and the current medications
against the interaction service, then prints the interactions found.
Current medications are separated by commas.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := newCommandClient(cmd)
			if err != nil {
				return err
			}
			defer service.Close()

			out := surface.NewTerminal(cmd.OutOrStdout(), cmd.ErrOrStderr())
			outcome := checker.New(service, out).CheckDrugInteraction(cmd.Context(), in)
			if !outcome.Succeeded() {
				return fmt.Errorf("check did not complete: %s", outcome)
			}
			return nil
		},
	}
	command.Flags().StringVarP(&in.Drug, "drug", "d", "", "prescribed drug")
	command.Flags().StringVarP(&in.Condition, "condition", "c", "", "condition the drug is prescribed for")
	command.Flags().StringVarP(&in.Medications, "medications", "m", "", "current medications, comma separated")
	return command
}

func newLookupCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "lookup",
		Short: "Look up a drug or a condition by name",
	}
	command.AddCommand(
		newLookupSubcommand("drug", "Look up a drug", (*client.Client).SearchDrugs),
		newLookupSubcommand("condition", "Look up a condition", (*client.Client).SearchConditions),
	)
	return command
}

type searchFunc func(c *client.Client, ctx context.Context, input string) (entities.ConditionMatches, error)

func newLookupSubcommand(use, short string, search searchFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <name>",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := newCommandClient(cmd)
			if err != nil {
				return err
			}
			defer service.Close()

			name := strings.TrimSpace(strings.Join(args, " "))
			matches, err := search(service, cmd.Context(), name)
			if err != nil {
				var upstreamErr *entities.UpstreamError
				if errors.As(err, &upstreamErr) && upstreamErr.IsBadRequest() {
					return fmt.Errorf("%s %q: %w", use, name, errNoMatch)
				}
				return err
			}
			if !matches.Found() {
				return fmt.Errorf("%s %q: %w", use, name, errNoMatch)
			}

			_, _ = color.New(color.Bold).Fprintln(cmd.OutOrStdout(), matches.Name())
			if url := matches.URL(); url != "" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), url)
			}
			return nil
		},
	}
}

func newTranslateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "translate <description>",
		Short: "Rewrite a professional interaction description in plain language",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := newCommandClient(cmd)
			if err != nil {
				return err
			}
			defer service.Close()

			text, err := service.TranslateDescription(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("translate: %w", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}
