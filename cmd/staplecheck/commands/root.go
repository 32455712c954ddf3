package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"staplecheck/lib/checklist"
	"staplecheck/lib/configutil"
	"staplecheck/lib/scryfall"
	"staplecheck/lib/telemetry"

	"github.com/spf13/cobra"
)

var verbose bool
var tel telemetry.Telemetry

var rootCmd = &cobra.Command{
	Use:   "staplecheck [format|decklist]",
	Short: "staplecheck builds a ranked staple acquisition checklist for a constructed format.",
	Long: `staplecheck scrapes the staple lists of a constructed format, joins them
with your collection and prints which cards to acquire first, plus
completion statistics over the format's most-played cards.

The positional argument is a format name (fuzzy-matched, defaults to
pauper) or the path of a deck list file to check instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRoot,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(verbose)
		t, err := telemetry.SetupFromEnv(cmd.Context(), "staplecheck")
		if err != nil && !errors.Is(err, configutil.ErrNoConfig) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if err == nil {
			tel = t
			telemetry.InstrumentPerfStats(cmd.Context())
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = tel.Shutdown(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	token := ""
	if len(args) > 0 {
		token = args[0]
	}

	// a token naming a readable file is a deck list to check, anything
	// else is a format name
	if token != "" {
		if _, err := os.Stat(token); err == nil {
			return checkDeck(ctx, token)
		}
	}

	format, err := scryfall.ParseFormat(token)
	if err != nil {
		return err
	}

	e, err := newEnv()
	if err != nil {
		return err
	}

	staples, err := e.fetcher.Fetch(ctx, format)
	if err != nil {
		return err
	}

	list, err := checklist.Build(ctx, staples, e.printings, e.col)
	if err != nil {
		return err
	}

	renderChecklist(os.Stdout, list)
	renderStats(os.Stdout, checklist.ComputeStats(list.IgnoringCollection()))
	return nil
}
