package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/newslens/internal/domain"
	"github.com/kailas-cloud/newslens/internal/usecase/query"
)

func newQueryCmd() *cobra.Command {
	var (
		entities []string
		keywords []string
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Build the alternative-search query from entities and topic keywords",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var topics []domain.Topic
			if len(keywords) > 0 {
				topics = []domain.Topic{{ID: 0, Keywords: keywords, Size: len(keywords)}}
			}

			q, ok := query.Build(entities, topics)
			if !ok {
				return fmt.Errorf("%w: every entity and keyword was empty or redundant", domain.ErrNoQuery)
			}
			fmt.Fprintln(cmd.OutOrStdout(), q)
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&entities, "entity", "e", nil, "named entity, repeatable")
	cmd.Flags().StringSliceVarP(&keywords, "keyword", "k", nil, "topic keyword in rank order, repeatable")
	return cmd
}
