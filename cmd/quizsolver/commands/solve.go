package commands

import (
	"fmt"
	"log/slog"
	"time"

	"quizsolver/lib/browser"
	"quizsolver/lib/configutil"
	"quizsolver/lib/openrouter"
	"quizsolver/lib/serviceutil"
	"quizsolver/lib/telemetry"
	"quizsolver/services/solver"
	solverdb "quizsolver/services/solver/db"

	"github.com/dgraph-io/badger/v4"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

type Config struct {
	QuizUrl string `json:"quiz_url"`
	Model   string `json:"model"`
	ApiKey  string `json:"api_key"`
	// BaseUrl overrides the openrouter endpoint, mostly for testing
	// against a local stub.
	BaseUrl string `json:"base_url"`
	// DelaySeconds paces consecutive model calls. The default of 8
	// matches the free tier's 8 requests per minute.
	DelaySeconds int  `json:"delay_seconds"`
	PaceMillis   int  `json:"pace_millis"`
	Headless     bool `json:"headless"`
}

var (
	solveResults *string
	solveDb      *string
	solveCache   *string
	solveDryRun  *bool
	solveStatic  *bool
)

func init() {
	solveResults = solveCmd.Flags().String("results", "quiz_results.json", "Where to write the run's JSON record.")
	solveDb = solveCmd.Flags().String("db", "", "Optional run-history database path.")
	solveCache = solveCmd.Flags().String("cache", "", "Optional model reply cache directory.")
	solveDryRun = solveCmd.Flags().Bool("dry-run", false, "Answer questions without touching the page.")
	solveStatic = solveCmd.Flags().Bool("static", false, "Fetch the page over plain HTTP instead of driving a browser. Implies --dry-run.")
	rootCmd.AddCommand(solveCmd)
}

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solves the quiz configured in config.json5 and submits it.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		cfg, err := configutil.ReadConfig[Config]("config.json5")
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}

		tel, err := telemetry.SetupFromEnv(ctx, "quizsolver")
		if err != nil {
			serviceutil.Fatal("failed to setup telemetry", err)
		}
		defer tel.Shutdown(ctx)
		telemetry.InstrumentPerfStats(ctx)

		var cache *badger.DB
		if *solveCache != "" {
			cache, err = badger.Open(badger.DefaultOptions(*solveCache).WithLogger(nil))
			if err != nil {
				serviceutil.Fatal("failed to open reply cache", err)
			}
			defer cache.Close()
		}

		llm := openrouter.NewClient(openrouter.ClientOptions{
			BaseUrl: cfg.BaseUrl,
			ApiKey:  cfg.ApiKey,
			Model:   cfg.Model,
			Cache:   cache,
		})

		var page browser.Page
		dryRun := *solveDryRun
		if *solveStatic {
			page = browser.NewStatic()
			dryRun = true
		} else {
			chrome, err := browser.NewChrome(ctx, browser.ChromeOptions{
				Headless: cfg.Headless,
			})
			if err != nil {
				serviceutil.Fatal("failed to start browser", err)
			}
			defer chrome.Close()
			page = chrome
		}

		var store *solverdb.Store
		if *solveDb != "" {
			database, err := solverdb.Open(*solveDb)
			if err != nil {
				serviceutil.Fatal("failed to open run-history db", err)
			}
			defer database.Close()
			store = solverdb.NewStore(database)
		}

		service := solver.NewService(page, llm, store, solver.Options{
			QuizURL:     cfg.QuizUrl,
			Delay:       time.Duration(cfg.DelaySeconds) * time.Second,
			Pace:        time.Duration(cfg.PaceMillis) * time.Millisecond,
			DryRun:      dryRun,
			ResultsPath: *solveResults,
		})

		t1 := time.Now()
		result, err := service.Run(ctx)
		if err != nil {
			serviceutil.Fatal("quiz run failed", err)
		}
		t2 := time.Now()

		printSummary(result)
		slog.Info("quiz run finished",
			"questions", len(result.Questions),
			"answered", len(result.Decisions),
			"seconds", t2.Sub(t1).Seconds())
	},
}

func printSummary(result solver.RunResult) {
	decisions := make(map[string]solver.Decision, len(result.Decisions))
	for _, d := range result.Decisions {
		decisions[d.QuestionID] = d
	}

	t := newTable()
	t.AppendHeader(table.Row{"#", "Question", "Answer", "Confidence"})
	for i, q := range result.Questions {
		d, ok := decisions[q.ID]
		if !ok {
			t.AppendRow(table.Row{i + 1, q.Text, "(unanswered)", ""})
			continue
		}
		t.AppendRow(table.Row{
			i + 1,
			q.Text,
			optionText(q, d.SelectedOptionID),
			fmt.Sprintf("%.2f", d.Confidence),
		})
	}
	t.Render()
}

func optionText(q solver.Question, optionId string) string {
	for _, o := range q.Options {
		if o.ID == optionId {
			return o.Text
		}
	}
	return optionId
}
