package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var flagMarkdown bool

var pageCmd = &cobra.Command{
	Use:   "page <title>",
	Short: "Fetch a page by exact title and print the tool-shaped JSON result",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPage,
}

func init() {
	pageCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "render the page as markdown instead of structured data")
	rootCmd.AddCommand(pageCmd)
}

func runPage(cmd *cobra.Command, args []string) error {
	s, err := loadService()
	if err != nil {
		return err
	}
	defer s.Close()

	title := strings.Join(args, " ")
	if flagMarkdown {
		resp, err := s.GetPageMarkdown(cmd.Context(), title)
		if err != nil {
			return err
		}
		return printJSON(resp)
	}
	resp, err := s.GetPageData(cmd.Context(), title)
	if err != nil {
		return err
	}
	return printJSON(resp)
}
