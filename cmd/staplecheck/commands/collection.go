package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <card> <set>",
	Short: "Records one owned printing of a card.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, code := args[0], args[1]

		col, err := openCollection()
		if err != nil {
			return err
		}
		err = col.Add(name, code)
		if err != nil {
			return err
		}

		fmt.Printf("%s: %d owned\n", name, len(col.Get(name)))
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <card> <set>",
	Short: "Removes one owned printing of a card.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, code := args[0], args[1]

		col, err := openCollection()
		if err != nil {
			return err
		}
		err = col.Remove(name, code)
		if err != nil {
			return err
		}

		fmt.Printf("%s: %d owned\n", name, len(col.Get(name)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
}
