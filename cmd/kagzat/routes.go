package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Kagzat/kagzat-india-sub000/pkg/routes"
)

func newRoutesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the screen routing table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PATH\tSCREEN\tFLOW")
			for _, r := range routes.Table() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", r.Path, r.Screen, r.Flow)
			}
			return w.Flush()
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "resolve <path>",
		Short: "Show the screen a path resolves to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, _ := routes.Resolve(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", r.Path, r.Screen)
			return nil
		},
	})
	return cmd
}
