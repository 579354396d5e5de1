package main

import (
	"fmt"
	"text/tabwriter"

	"lmlbench/internal/bench"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved benchmark runs",
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := newStoreFunc(bench.StoreConfig{
		Type:             viper.GetString("store.type"),
		ConnectionString: viper.GetString("store.connection"),
	})
	if err != nil {
		return fmt.Errorf("failed to open history store: %w", err)
	}
	defer store.Close()

	runs, err := store.LoadAll()
	if err != nil {
		return fmt.Errorf("failed to load runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No saved runs. Use 'lmlbench run --save' to record one.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tLABEL\tTIMESTAMP\tRECORDS\tUNAVAILABLE")
	for _, r := range runs {
		failed := 0
		for _, rec := range r.Records {
			if !rec.OK {
				failed++
			}
		}
		label := r.Label
		if label == "" {
			label = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\n",
			r.ID, label, r.Timestamp.Format("2006-01-02 15:04:05"), len(r.Records), failed)
	}
	return w.Flush()
}
