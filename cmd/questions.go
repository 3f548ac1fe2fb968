package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/loanscope/internal/cli"
	"github.com/theirongolddev/loanscope/internal/insights"

	"github.com/spf13/cobra"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "List the insight questions",
	Args:  cobra.NoArgs,
	RunE:  runQuestions,
}

func init() {
	rootCmd.AddCommand(questionsCmd)
}

func runQuestions(_ *cobra.Command, _ []string) error {
	fmt.Println()
	fmt.Println(cli.RenderTitle("QUESTIONS"))
	fmt.Println()

	rows := make([][]string, 0, len(insights.Questions()))
	for _, q := range insights.Questions() {
		rows = append(rows, []string{
			fmt.Sprintf("%d  %s", int(q), q.Prompt()),
			q.Kind().String(),
			strings.Join(q.Columns(), ", "),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Question", "Chart", "Columns"},
		Rows:    rows,
	}))
	fmt.Println()
	fmt.Println("  Run `loanscope insight <n>` to answer one.")
	return nil
}
