package cmd

import (
	"fmt"

	"github.com/theirongolddev/loanscope/internal/cli"
	"github.com/theirongolddev/loanscope/internal/model"

	"github.com/spf13/cobra"
)

var flagHeadRows int

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Dataset overview: preview rows, column meanings, numeric summary",
	Args:  cobra.NoArgs,
	RunE:  runDescribe,
}

func init() {
	describeCmd.Flags().IntVarP(&flagHeadRows, "rows", "n", 5, "Preview rows to show")
	rootCmd.AddCommand(describeCmd)
}

func runDescribe(cmd *cobra.Command, _ []string) error {
	result, err := loadData(cmd.Context())
	if err != nil {
		return err
	}
	ds := result.Dataset

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("DATASET  %s", ds.Source())))
	fmt.Println()

	header, rows := ds.Head(flagHeadRows)
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("First %d of %s rows", len(rows), cli.FormatNumber(int64(ds.Len()))),
		Headers: header,
		Rows:    rows,
	}))
	fmt.Println()

	meanings := make([][]string, 0, len(model.ColumnDescriptions))
	for _, c := range model.ColumnDescriptions {
		present := "yes"
		if !ds.Has(c.Column) {
			present = "missing"
		}
		meanings = append(meanings, []string{c.Column, c.Meaning, present})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Columns",
		Headers: []string{"Column", "Meaning", "In dataset"},
		Rows:    meanings,
	}))
	fmt.Println()

	summaries := ds.Describe()
	stats := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		stats = append(stats, []string{
			s.Column,
			cli.FormatNumber(int64(s.Count)),
			cli.FormatFloat(s.Mean, 2),
			cli.FormatFloat(s.Std, 2),
			cli.FormatFloat(s.Min, 2),
			cli.FormatFloat(s.Q25, 2),
			cli.FormatFloat(s.Median, 2),
			cli.FormatFloat(s.Q75, 2),
			cli.FormatFloat(s.Max, 2),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Numeric summary",
		Headers: []string{"Column", "Count", "Mean", "Std", "Min", "25%", "50%", "75%", "Max"},
		Rows:    stats,
	}))
	return nil
}
