package commands

import (
	"fmt"
	"time"

	"quizsolver/lib/serviceutil"
	solverdb "quizsolver/services/solver/db"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var runsDb *string

func init() {
	runsDb = runsCmd.Flags().String("db", "runs.db", "The run-history database to read.")
	rootCmd.AddCommand(runsCmd)
}

var runsCmd = &cobra.Command{
	Use:   "runs [--db <path/to/runs.db>]",
	Short: "Lists past solving runs from the run-history database.",
	Run: func(cmd *cobra.Command, args []string) {
		database, err := solverdb.Open(*runsDb)
		if err != nil {
			serviceutil.Fatal("failed to open run-history db", err)
		}
		defer database.Close()

		runs, err := solverdb.NewStore(database).Runs(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to read runs", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"Started", "Quiz", "Answered", "Duration"})
		for _, run := range runs {
			t.AppendRow(table.Row{
				run.StartedAt.Format("2006-01-02 15:04"),
				run.QuizURL,
				fmt.Sprintf("%d/%d", run.Answered, run.Questions),
				run.FinishedAt.Sub(run.StartedAt).Round(time.Second),
			})
		}
		t.Render()
	},
}
