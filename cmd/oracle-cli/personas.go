package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/PabloGalante/farum-oracle/internal/app/persona"
)

var personasCmd = &cobra.Command{
	Use:   "personas",
	Short: "List the available personas",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := persona.Load(personasFile)
		if err != nil {
			return err
		}
		return printPersonas(cmd.OutOrStdout(), registry)
	},
}

func printPersonas(out io.Writer, registry *persona.Registry) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tFEATURE\tROLE")
	for _, p := range registry.List() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.DisplayName, p.Feature, p.Role)
	}
	return tw.Flush()
}
