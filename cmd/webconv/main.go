package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"go-conversion-analysis/internal/model"
	"go-conversion-analysis/internal/pipeline"
	"go-conversion-analysis/internal/store"
)

var (
	configPath string
	inputPath  string
	outputDir  string
	seed       int64
	dbPath     string
)

func main() {
	root := &cobra.Command{
		Use:   "webconv",
		Short: "Web-conversion analysis pipeline",
		Long: "Batch analysis of a web-conversion dataset: descriptive statistics,\n" +
			"stratified train/validation split, LDA and random forest training with\n" +
			"cross-validation, confusion-matrix evaluation, and a bucketing experiment.",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Execute one analysis run",
		RunE:  runAnalysis,
	}
	runCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML config")
	runCmd.Flags().StringVarP(&inputPath, "input", "i", "", "input CSV path (overrides config)")
	runCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory (overrides config)")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (overrides config)")
	root.AddCommand(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded analysis runs",
		RunE:  listRuns,
	}
	listCmd.Flags().StringVar(&dbPath, "db", "", "path to the runs database")
	root.AddCommand(listCmd)

	showCmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show a run's model results and errors",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().StringVar(&dbPath, "db", "", "path to the runs database")
	root.AddCommand(showCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runAnalysis(cmd *cobra.Command, args []string) error {
	cfg := model.DefaultConfig()
	if configPath != "" {
		loaded, err := model.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if inputPath != "" {
		cfg.InputPath = inputPath
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	setupLogging(cfg.LogLevel)

	if err := store.InitDB(cfg.DBPath); err != nil {
		return fmt.Errorf("init db: %w", err)
	}
	defer store.Close()

	runID := uuid.New().String()
	if err := store.SaveRun(runID, cfg); err != nil {
		return fmt.Errorf("save run: %w", err)
	}

	rep, err := pipeline.Run(context.Background(), runID, cfg)
	if err != nil {
		return err
	}

	fmt.Printf("run %s completed: selected %s (%s)\n",
		runID, rep.Selection.Model, rep.Selection.Reason)
	return nil
}

func openStore() error {
	path := dbPath
	if path == "" {
		path = model.DefaultConfig().DBPath
	}
	if err := store.InitDB(path); err != nil {
		return fmt.Errorf("init db: %w", err)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	if err := openStore(); err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.ListRuns()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN ID\tSTATUS\tCREATED\tUPDATED")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			r["id"], r["status"],
			r["createdAt"].(time.Time).Format(time.RFC3339),
			r["updatedAt"].(time.Time).Format(time.RFC3339))
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	if err := openStore(); err != nil {
		return err
	}
	defer store.Close()

	runID := args[0]
	run, err := store.GetRun(runID)
	if err != nil {
		return fmt.Errorf("run %s: %w", runID, err)
	}
	fmt.Printf("run %s: %s\n", runID, run["status"])

	results, err := store.ModelResults(runID)
	if err != nil {
		return err
	}
	if len(results) > 0 {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "EXPERIMENT\tMODEL\tMTRY\tCV ACC\tACCURACY\tSENSITIVITY\tTRAIN (S)")
		for _, r := range results {
			mtry := "-"
			if r.Mtry > 0 {
				mtry = fmt.Sprintf("%d", r.Mtry)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%.4f\t%.4f\t%.4f\t%.2f\n",
				r.Experiment, r.Model, mtry, r.CVAccuracy,
				r.Confusion.Accuracy(), r.Confusion.Sensitivity(), r.TrainSeconds)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	errs, err := store.RunErrors(runID)
	if err != nil {
		return err
	}
	for _, e := range errs {
		fmt.Printf("error at %s: %s\n", e["stage"], e["error"])
	}
	return nil
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}
