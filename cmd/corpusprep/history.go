package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"corpusprep/internal/ledger"
	"corpusprep/internal/model"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recorded runs, or the file events of one run",
		Long: `History lists the most recent runs from the ledger. With a run id it
prints every file event of that run: which images were processed,
quarantined, deleted or skipped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 20, "Number of runs to list (0 = all)")
	cmd.Flags().Bool("json", false, "Print as JSON")
	cmd.Flags().String("ledger-dir", "", "Directory of the run ledger (default: XDG data directory)")
	cmd.Flags().String("outcome", "", "Only show events with this outcome")

	return cmd
}

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	outcome, err := cmd.Flags().GetString("outcome")
	if err != nil {
		return err
	}

	led, err := ledger.Open(cfg.LedgerDir())
	if err != nil {
		return err
	}
	defer led.Close()

	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	if len(args) == 0 {
		runs, err := led.ListRuns(ctx, limit)
		if err != nil {
			return err
		}
		if asJSON {
			return writeJSON(out, runs)
		}
		printRuns(out, runs)
		return nil
	}

	rec, err := led.Run(ctx, args[0])
	if err != nil {
		return err
	}
	events, err := led.Events(ctx, rec.ID)
	if err != nil {
		return err
	}
	if outcome != "" {
		filtered := events[:0]
		for _, ev := range events {
			if string(ev.Outcome) == outcome {
				filtered = append(filtered, ev)
			}
		}
		events = filtered
	}
	if asJSON {
		return writeJSON(out, struct {
			Run    ledger.RunRecord `json:"run"`
			Events []model.Event    `json:"events"`
		}{rec, events})
	}
	printEvents(out, rec, events)
	return nil
}

func printRuns(out io.Writer, runs []ledger.RunRecord) {
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs recorded")
		return
	}
	for _, r := range runs {
		fmt.Fprintf(out, "%s  %s  %-9s  %s -> %s\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), r.Status, r.InputDir, r.OutputDir)
	}
}

func printEvents(out io.Writer, rec ledger.RunRecord, events []model.Event) {
	fmt.Fprintf(out, "run %s (%s)\n", rec.ID, rec.Status)
	for _, ev := range events {
		line := fmt.Sprintf("  %-10s %-13s %s", ev.Stage, ev.Outcome, ev.File)
		if ev.Detail != "" {
			line += "  (" + ev.Detail + ")"
		}
		fmt.Fprintln(out, line)
	}
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
