package main

import (
	"fmt"
	"text/tabwriter"

	"lmlbench/internal/workload"

	"github.com/spf13/cobra"
)

var workloadsFiles []string

var workloadsCmd = &cobra.Command{
	Use:   "workloads",
	Short: "List the workloads a run would execute",
	Long: `Lists the builtin workloads plus any loaded from --workload-file,
in the order a run would execute them.`,
	RunE: listWorkloads,
}

func init() {
	rootCmd.AddCommand(workloadsCmd)
	workloadsCmd.Flags().StringArrayVar(&workloadsFiles, "workload-file", nil, "YAML workload file to load in addition to the builtins (repeatable)")
}

func listWorkloads(cmd *cobra.Command, args []string) error {
	registry := workload.NewRegistry()
	for _, path := range workloadsFiles {
		if err := registry.LoadFile(path); err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tTARGET CLASS\tDATA FIELDS\tSCHEMA BYTES")
	for _, wl := range registry.All() {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", wl.Name, wl.TargetClass, len(wl.Data), len(wl.Schema))
	}
	return w.Flush()
}
