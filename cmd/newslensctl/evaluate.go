package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/newslens/internal/domain"
	"github.com/kailas-cloud/newslens/internal/usecase/evaluation"
	"github.com/kailas-cloud/newslens/internal/usecase/sentiment"
)

func newEvaluateCmd(opts *rootOptions) *cobra.Command {
	var showMisses int

	cmd := &cobra.Command{
		Use:   "evaluate <dataset.csv>",
		Short: "Measure sentiment accuracy against a labeled CSV (Sentence, MyLabel)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(filepath.Clean(args[0]))
			if err != nil {
				return fmt.Errorf("open dataset: %w", err)
			}
			defer func() { _ = f.Close() }()

			report, err := evaluation.New(sentiment.New()).Evaluate(f)
			if err != nil {
				return err
			}
			opts.logger.Debug("Evaluation finished",
				zap.String("dataset", args[0]),
				zap.Int("rows", report.Total),
				zap.Int("misses", len(report.Misses)),
			)

			printReport(cmd.OutOrStdout(), report, showMisses)
			return nil
		},
	}

	cmd.Flags().IntVar(&showMisses, "misses", 10, "number of misclassified rows to print")
	return cmd
}

func printReport(w io.Writer, r evaluation.Report, showMisses int) {
	fmt.Fprintf(w, "Accuracy: %.2f%% (%d/%d)\n", r.Accuracy, r.Correct, r.Total)

	labels := []domain.SentimentLabel{domain.SentimentPositive, domain.SentimentNeutral, domain.SentimentNegative}
	expected := make([]string, 0, len(r.Confusion))
	for k := range r.Confusion {
		expected = append(expected, k)
	}
	sort.Strings(expected)

	fmt.Fprintf(w, "\n%-12s", "expected")
	for _, l := range labels {
		fmt.Fprintf(w, "%10s", l)
	}
	fmt.Fprintln(w)
	for _, e := range expected {
		fmt.Fprintf(w, "%-12s", e)
		for _, l := range labels {
			fmt.Fprintf(w, "%10d", r.Confusion[e][l])
		}
		fmt.Fprintln(w)
	}

	if showMisses <= 0 || len(r.Misses) == 0 {
		return
	}
	fmt.Fprintln(w, "\nMisclassified:")
	for _, m := range r.Misses[:min(showMisses, len(r.Misses))] {
		fmt.Fprintf(w, "  line %d: expected %s, got %s (%.3f): %s\n", m.Line, m.Expected, m.Predicted, m.Compound, m.Sentence)
	}
}
