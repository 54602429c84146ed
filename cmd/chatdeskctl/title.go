package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var titleCmd = &cobra.Command{
	Use:   "title",
	Short: "Summarize the active topic into a title",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		title, err := svc.Enhance.SummarizeTitle(cmd.Context(), svc.Messages.List())
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(map[string]string{"title": title})
			return nil
		}
		fmt.Println(title)
		return nil
	},
}
