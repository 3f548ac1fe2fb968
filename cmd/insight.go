package cmd

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"slices"

	"github.com/theirongolddev/loanscope/internal/cli"
	"github.com/theirongolddev/loanscope/internal/insights"
	"github.com/theirongolddev/loanscope/internal/model"

	"github.com/spf13/cobra"
)

var (
	flagRecommendations bool
	flagInsightJSON     bool
)

var insightCmd = &cobra.Command{
	Use:   "insight <1-7>",
	Short: "Answer one insight question against the dataset",
	Args:  cobra.ExactArgs(1),
	RunE:  runInsight,
}

func init() {
	insightCmd.Flags().BoolVarP(&flagRecommendations, "recommendations", "r", false, "Also print the final recommendations")
	insightCmd.Flags().BoolVar(&flagInsightJSON, "json", false, "Print the aggregation as JSON")
	rootCmd.AddCommand(insightCmd)
}

func runInsight(cmd *cobra.Command, args []string) error {
	q, err := insights.ParseQuestion(args[0])
	if err != nil {
		return err
	}

	result, err := loadData(cmd.Context())
	if err != nil {
		return err
	}

	res, err := insights.Aggregate(result.Dataset, q)
	if err != nil {
		return err
	}

	if flagInsightJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("Q%d  %s", int(q), q.ChartTitle())))
	fmt.Println()
	fmt.Printf("  %s\n\n", q.Prompt())

	switch res.Kind {
	case insights.KindCounts:
		printCounts(res)
	case insights.KindDistribution:
		printDistribution(res)
	case insights.KindFacets:
		printFacets(res)
	}

	fmt.Println()
	fmt.Println("  Insight")
	for _, line := range q.Insight() {
		fmt.Printf("    • %s\n", line)
	}

	if flagRecommendations {
		printRecommendations()
	}
	return nil
}

// countHeaders builds the shared header row for count tables.
func countHeaders(first string, outcomes []string) []string {
	headers := []string{first}
	for _, o := range outcomes {
		headers = append(headers, cli.FormatOutcome(o))
	}
	return append(headers, "Total", "Approval")
}

func countRow(label string, g insights.Group, approved int) []string {
	row := []string{label}
	for _, c := range g.Counts {
		row = append(row, cli.FormatNumber(int64(c)))
	}
	rate := "-"
	if approved >= 0 {
		rate = cli.FormatRate(g.Counts[approved], g.Total())
	}
	return append(row, cli.FormatNumber(int64(g.Total())), rate)
}

func printCounts(res insights.Result) {
	approved := model.ApprovedIndex(res.Outcomes)

	rows := make([][]string, 0, len(res.Counts))
	for _, g := range res.Counts {
		rows = append(rows, countRow(g.Key, g, approved))
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: countHeaders(res.Dimension, res.Outcomes),
		Rows:    rows,
	}))
	fmt.Println()

	peak, labelW := 0, len(res.Dimension)
	for _, g := range res.Counts {
		peak = max(peak, slices.Max(g.Counts))
		labelW = max(labelW, len(g.Key)+10)
	}
	for _, g := range res.Counts {
		for i, o := range res.Outcomes {
			label := g.Key + " " + cli.FormatOutcome(o)
			fmt.Println(cli.RenderHorizontalBar(label, float64(g.Counts[i]), float64(peak), labelW, 40, cli.OutcomeColor(o)))
		}
	}
}

func printDistribution(res insights.Result) {
	rows := make([][]string, 0, len(res.Distribution))
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, b := range res.Distribution {
		rows = append(rows, []string{
			cli.FormatOutcome(b.Outcome),
			cli.FormatNumber(int64(b.Count)),
			cli.FormatAmount(b.Min),
			cli.FormatAmount(b.Q1),
			cli.FormatAmount(b.Median),
			cli.FormatAmount(b.Q3),
			cli.FormatAmount(b.Max),
			cli.FormatNumber(int64(len(b.Outliers))),
		})
		lo = math.Min(lo, b.Min)
		hi = math.Max(hi, b.Max)
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Outcome", "Count", "Min", "Q1", "Median", "Q3", "Max", "Outliers"},
		Rows:    rows,
	}))
	fmt.Println()

	const labelW, width = 9, 50
	for _, b := range res.Distribution {
		g := cli.BoxGeometry{
			LowerWhisker: b.LowerWhisker,
			Q1:           b.Q1,
			Median:       b.Median,
			Q3:           b.Q3,
			UpperWhisker: b.UpperWhisker,
			Outliers:     b.Outliers,
		}
		fmt.Println(cli.RenderBoxPlot(cli.FormatOutcome(b.Outcome), g, lo, hi, labelW, width, cli.OutcomeColor(b.Outcome)))
	}
	if len(res.Distribution) > 0 {
		left, right := cli.FormatAmount(lo), cli.FormatAmount(hi)
		gap := max(1, width-len(left)-len(right))
		fmt.Printf("  %*s %s%*s%s\n", labelW, "", left, gap, "", right)
	}
}

func printFacets(res insights.Result) {
	approved := model.ApprovedIndex(res.Outcomes)

	var rows [][]string
	for i, f := range res.Facets {
		if i > 0 {
			rows = append(rows, []string{"---"})
		}
		for _, g := range f.Groups {
			rows = append(rows, countRow(fmt.Sprintf("%s=%s, %s=%s", res.Facet, f.Key, res.Dimension, g.Key), g, approved))
		}
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: countHeaders("Group", res.Outcomes),
		Rows:    rows,
	}))
}

func printRecommendations() {
	fmt.Println()
	fmt.Println(cli.RenderTitle("FINAL RECOMMENDATIONS"))
	fmt.Println()
	for i, r := range insights.Recommendations() {
		fmt.Printf("  %d. %s\n", i+1, r.Title)
		fmt.Printf("     %s\n\n", r.Body)
	}
	fmt.Printf("  %s\n", insights.Footnote)
}
