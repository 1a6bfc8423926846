package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Kagzat/kagzat-india-sub000/pkg/library"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <category> <field> <value>",
		Short: "Check a value against a predefined field's length bounds",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, name, value := library.Category(args[0]), args[1], args[2]
			lib := library.Default()
			if !lib.HasCategory(category) {
				return fmt.Errorf("unknown category %q", category)
			}
			if _, ok := lib.Field(category, name); !ok {
				return fmt.Errorf("unknown field %q in %s", name, category)
			}
			if err := lib.Validate(category, name, value); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}

func newFieldsCmd() *cobra.Command {
	var (
		category string
		limit    int
	)
	cmd := &cobra.Command{
		Use:   "fields [query]",
		Short: "Search the predefined field library",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib := library.Default()
			opts := library.DefaultSearchOptions()
			opts.EmptySearchMode = library.EmptySearchTop
			if category != "" {
				opts.Category = library.Category(category)
				if !lib.HasCategory(opts.Category) {
					return fmt.Errorf("unknown category %q", category)
				}
			}
			query := ""
			if len(args) == 1 {
				query = args[0]
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CATEGORY\tFIELD\tLABEL\tLENGTH")
			for _, m := range lib.Search(query, limit, opts) {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d-%d\n", m.Category, m.Name, m.Label, m.MinLength, m.MaxLength)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "restrict matches to one category")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of matches (0 uses the default)")
	return cmd
}
