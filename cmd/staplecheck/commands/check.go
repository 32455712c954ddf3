package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"staplecheck/lib/decklist"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <file|url>",
	Short: "Checks a deck list against your collection.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return checkDeck(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func checkDeck(ctx context.Context, target string) error {
	col, err := openCollection()
	if err != nil {
		return err
	}
	checker := decklist.NewChecker(col)

	var report decklist.Report
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		report, err = checker.CheckWebPage(ctx, target)
	} else {
		var file *os.File
		file, err = os.Open(target)
		if err != nil {
			return fmt.Errorf("open deck list: %w", err)
		}
		defer file.Close()
		report, err = checker.Check(ctx, file)
	}
	if err != nil {
		return err
	}

	report.Render(os.Stdout)
	return nil
}
