package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/triviaboard/internal/dashboard"
	"github.com/abhisek/triviaboard/internal/stats"
	"github.com/abhisek/triviaboard/internal/trivia"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Fetch questions once and print statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		categories, _ := cmd.Flags().GetStringSlice("category")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		client := newClient(cmd, cfg, st, cmd.ErrOrStderr())
		loader := dashboard.NewLoader(client, cfg.Amount)

		res, err := loader.Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load trivia data: %w", err)
		}

		sel := dashboard.NewSelection()
		for _, c := range categories {
			sel = sel.Toggle(c)
		}

		printStats(cmd.OutOrStdout(), res, sel)
		return nil
	},
}

func init() {
	statsCmd.Flags().StringSlice("category", nil, "Only chart these categories (repeatable)")
}

func printStats(w io.Writer, res dashboard.Result, sel dashboard.Selection) {
	all := res.Questions
	filtered := sel.Apply(all)
	sum := stats.Compute(all)

	fmt.Fprintf(w, "Load cycle %s: %d categories available, %s questions fetched\n",
		res.CycleID, len(res.Categories), stats.FormatCount(len(all)))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Summary")
	fmt.Fprintln(w, strings.Repeat("─", 40))
	fmt.Fprintf(w, "%-20s %8s\n", "Total categories", stats.FormatCount(sum.TotalCategories))
	fmt.Fprintf(w, "%-20s %8s\n", "Total questions", stats.FormatCount(sum.TotalQuestions))
	fmt.Fprintf(w, "%-20s %8s\n", "Easy questions", stats.FormatCount(sum.EasyCount))
	fmt.Fprintf(w, "%-20s %8s\n", "Medium questions", stats.FormatCount(sum.MediumCount))
	fmt.Fprintf(w, "%-20s %8s\n", "Hard questions", stats.FormatCount(sum.HardCount))

	if !sel.IsAll() {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Filtered to: %s (%d questions)\n", strings.Join(sel.Names(), ", "), len(filtered))
	}

	printDistribution(w, "Questions by category", stats.CategoryDistribution(filtered), len(filtered))
	printDistribution(w, "Questions by difficulty", stats.DifficultyDistribution(filtered), len(filtered))

	if res.QuestionStatus == trivia.StatusFailed {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Questions could not be loaded: %v\n", res.QuestionErr)
	}
}

func printDistribution(w io.Writer, title string, buckets []stats.Bucket, total int) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("─", 56))
	if len(buckets) == 0 {
		fmt.Fprintln(w, "No questions available.")
		return
	}
	for _, b := range buckets {
		fmt.Fprintf(w, "%-40s %5d %8s\n", b.Name, b.Count, stats.FormatPercent(b.Count, total))
	}
}
