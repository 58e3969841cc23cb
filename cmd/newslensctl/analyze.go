package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/newslens/internal/app"
	"github.com/kailas-cloud/newslens/internal/config"
	"github.com/kailas-cloud/newslens/internal/domain"
)

func newAnalyzeCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "analyze <url>",
		Short: "Run the full analysis pipeline on an article URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.env)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			services, err := app.New(ctx, cfg, opts.logger)
			if err != nil {
				return err
			}
			defer services.Close()

			result, err := services.Analysis.Analyze(ctx, args[0])
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			printAnalysis(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw analysis as JSON")
	return cmd
}

func printAnalysis(w io.Writer, a *domain.Analysis) {
	fmt.Fprintf(w, "Title:     %s\n", a.Title)
	if a.Sentiment != nil {
		fmt.Fprintf(w, "Sentiment: %s (compound %.3f, pos %.3f, neu %.3f, neg %.3f)\n",
			a.Sentiment.Label(), a.Sentiment.Compound, a.Sentiment.Positive, a.Sentiment.Neutral, a.Sentiment.Negative)
	}
	fmt.Fprintf(w, "Entities:  %s\n", orNone(strings.Join(a.Entities, ", ")))

	if a.TopicOutcome != domain.TopicOK {
		fmt.Fprintf(w, "Topics:    %s\n", a.TopicOutcome)
	} else {
		fmt.Fprintln(w, "Topics:")
		for _, t := range a.Topics {
			fmt.Fprintf(w, "  #%d (%d sentences): %s\n", t.ID, t.Size, strings.Join(t.Keywords, ", "))
		}
	}

	fmt.Fprintf(w, "Query:     %s\n", orNone(a.Query))
	if len(a.Alternatives) == 0 {
		fmt.Fprintln(w, "Alternatives: none found")
		return
	}
	fmt.Fprintln(w, "Alternatives:")
	for i, alt := range a.Alternatives {
		fmt.Fprintf(w, "  %d. %s (%s, %s)\n     %s\n", i+1, alt.Title, alt.Source, alt.PublishedAt, alt.URL)
		if alt.Sentiment != nil {
			fmt.Fprintf(w, "     sentiment: %s (%.3f)\n", alt.Sentiment.Label(), alt.Sentiment.Compound)
		}
	}
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
