package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"goscreen/adapters/report"
	"goscreen/adapters/rng"
	"goscreen/adapters/stimulus"
	"goscreen/adapters/store"
	"goscreen/app"
	"goscreen/domain/screening"
	"goscreen/internal/config"
	"goscreen/ports"
)

func main() {
	// Optional .env for local overrides
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "goscreen",
		Short: "Sequential Bayesian perceptual screening engine",
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newSimulateCmd(),
		newReportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	var category string
	var trials int
	var preset string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run an interactive screening session on stdin",
		Long: `Run a screening session, reading the subject's answers from stdin.

This driver does not render the dot-field plate; it is intended for wiring
tests and for frontends that pipe answers in. The ground-truth target is
only revealed after each answer.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if trials > 0 {
				cfg.Screening.TrialCount = trials
			}
			if preset != "" {
				cfg.Screening.Preset = preset
			}
			return runInteractive(cmd.Context(), cfg, screening.Category(category))
		},
	}

	cmd.Flags().StringVar(&category, "category", string(screening.CategoryUnspecified), "Subject category (male, female, unspecified)")
	cmd.Flags().IntVar(&trials, "trials", 0, "Number of trials (overrides GOSCREEN_TRIALS)")
	cmd.Flags().StringVar(&preset, "preset", "", "Difficulty preset (gradual, balanced, coarse)")

	return cmd
}

func runInteractive(ctx context.Context, cfg *config.Config, category screening.Category) error {
	svc, err := buildService(cfg)
	if err != nil {
		return err
	}

	session, err := svc.StartSession(ctx, category)
	if err != nil {
		return err
	}
	fmt.Printf("Session %s started. Prior probability: %.4f (%.2f%%)\n\n",
		session.ID(), session.Prior(), session.Prior()*100)

	scanner := bufio.NewScanner(os.Stdin)
	for session.State() == screening.StateInProgress {
		prompt, err := svc.NextTrial(ctx, session.ID())
		if err != nil {
			return err
		}

		fmt.Printf("Trial %d of %d\n", prompt.TrialIndex+1, prompt.TrialCount)
		fmt.Printf("  Plate: %d dots, contrast %.3f\n", prompt.Plate.DotCount, prompt.Plate.Discriminability)
		fmt.Printf("  If unaffected: %.1f%% chance of a correct answer\n", prompt.Trial.LikelihoodIfNegative*100)
		fmt.Printf("  If affected:   %.1f%% chance of a correct answer\n", prompt.Trial.LikelihoodIfPositive*100)
		fmt.Print("What number do you see? ")

		if !scanner.Scan() {
			return scanner.Err()
		}

		update, err := svc.SubmitAnswer(ctx, session.ID(), scanner.Text())
		if err != nil {
			fmt.Printf("  %v\n\n", err)
			continue
		}

		if update.Correct {
			fmt.Printf("  Correct! The number was %d.\n", update.Target)
		} else {
			fmt.Printf("  Wrong. The number was %d.\n", update.Target)
		}
		fmt.Printf("  Posterior: %.6f -> %.6f (%+.6f)\n", update.PosteriorBefore, update.PosteriorAfter, update.Delta)
		fmt.Printf("  %s\n\n", update.Rationale)
	}

	rep, err := svc.Summary(ctx, session.ID())
	if err != nil {
		return err
	}
	fmt.Printf("All trials completed. Final probability: %.4f%%\n", rep.Posterior*100)
	fmt.Println(rep.Verdict.Advice())
	if rep.Conjugate != nil {
		fmt.Printf("Conjugate cross-check mean: %.4f (95%% CI [%.4f, %.4f])\n",
			rep.Conjugate.Mean, rep.Conjugate.CredibleLow, rep.Conjugate.CredibleHigh)
	}
	return nil
}

func newSimulateCmd() *cobra.Command {
	var category string
	var trials, subjects int
	var seed, concurrency int64
	var preset string
	var positive bool

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a Monte Carlo calibration sweep over synthetic subjects",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if preset != "" {
				cfg.Screening.Preset = preset
			}

			difficulty, err := difficultyFromConfig(cfg)
			if err != nil {
				return err
			}
			svc, err := app.NewCalibrationService(screening.DefaultPriorModel(), difficulty, rng.NewSeededAdapter())
			if err != nil {
				return err
			}

			if trials <= 0 {
				trials = cfg.Screening.TrialCount
			}
			if subjects <= 0 {
				subjects = cfg.Calibration.Subjects
			}
			if seed == 0 {
				seed = cfg.Calibration.Seed
			}
			if concurrency <= 0 {
				concurrency = cfg.Calibration.Concurrency
			}

			result, err := svc.Run(cmd.Context(), app.CalibrationSpec{
				Category:      screening.Category(category),
				TruthPositive: positive,
				Subjects:      subjects,
				TrialCount:    trials,
				Seed:          seed,
				Concurrency:   concurrency,
			})
			if err != nil {
				return err
			}

			truth := "condition-negative"
			if positive {
				truth = "condition-positive"
			}
			fmt.Printf("Simulated %d %s subjects (%s, %d trials, preset %s, seed %d)\n",
				subjects, truth, category, trials, cfg.Screening.Preset, seed)
			fmt.Printf("  Final posterior: mean %.4f, median %.4f, P10 %.4f, P90 %.4f\n",
				result.Mean, result.Median, result.P10, result.P90)
			for _, band := range []screening.VerdictBand{
				screening.VerdictVeryUnlikely, screening.VerdictUnlikely,
				screening.VerdictUncertain, screening.VerdictLikely,
			} {
				fmt.Printf("  %-14s %d\n", band+":", result.VerdictCounts[band])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", string(screening.CategoryMale), "Subject category")
	cmd.Flags().BoolVar(&positive, "positive", false, "Simulate condition-positive subjects")
	cmd.Flags().IntVar(&trials, "trials", 0, "Trials per subject")
	cmd.Flags().IntVar(&subjects, "subjects", 0, "Number of synthetic subjects")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed for deterministic sweeps")
	cmd.Flags().Int64Var(&concurrency, "concurrency", 0, "Concurrent subjects")
	cmd.Flags().StringVar(&preset, "preset", "", "Difficulty preset")

	return cmd
}

func newReportCmd() *cobra.Command {
	var category string
	var trials int
	var answers string
	var outDir string
	var formats []string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Replay a session from scripted answers and export the report",
		Long: `Replay a session by piping a comma-separated answer list through the
engine, then export the resulting report in the requested formats.

Example: goscreen report --answers 42,17,3,88,21 --formats md,html,xlsx,csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if trials > 0 {
				cfg.Screening.TrialCount = trials
			}

			svc, err := buildService(cfg)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			session, err := svc.StartSession(ctx, screening.Category(category))
			if err != nil {
				return err
			}

			for _, answer := range strings.Split(answers, ",") {
				if session.State() != screening.StateInProgress {
					break
				}
				if _, err := svc.SubmitAnswer(ctx, session.ID(), answer); err != nil {
					return err
				}
			}

			rep, err := svc.Summary(ctx, session.ID())
			if err != nil {
				return err
			}

			reporters := map[string]ports.ReporterPort{
				"md":   report.NewMarkdownReporter(),
				"html": report.NewHTMLReporter(),
				"xlsx": report.NewXLSXReporter(),
				"csv":  report.NewCSVReporter(),
			}
			for _, format := range formats {
				reporter, ok := reporters[format]
				if !ok {
					return fmt.Errorf("unknown report format %q", format)
				}
				data, err := reporter.Render(ctx, rep)
				if err != nil {
					return err
				}
				path := filepath.Join(outDir, fmt.Sprintf("session_%s.%s", session.ID(), reporter.Extension()))
				if err := os.WriteFile(path, data, 0o644); err != nil {
					return err
				}
				fmt.Printf("wrote %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", string(screening.CategoryUnspecified), "Subject category")
	cmd.Flags().IntVar(&trials, "trials", 0, "Number of trials")
	cmd.Flags().StringVar(&answers, "answers", "", "Comma-separated answers to replay")
	cmd.Flags().StringVar(&outDir, "out", ".", "Output directory")
	cmd.Flags().StringSliceVar(&formats, "formats", []string{"md"}, "Report formats (md, html, xlsx, csv)")

	return cmd
}

func buildService(cfg *config.Config) (*app.ScreeningService, error) {
	difficulty, err := difficultyFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return app.NewScreeningService(app.ScreeningServiceDeps{
		Difficulty:        difficulty,
		Stimulus:          stimulus.NewDotFieldGenerator(cfg.Stimulus.DotCount),
		Store:             store.NewMemorySessionStore(),
		TrialCount:        cfg.Screening.TrialCount,
		VirtualSampleSize: cfg.Screening.VirtualSampleSize,
	})
}

func difficultyFromConfig(cfg *config.Config) (*screening.TrialDifficultyModel, error) {
	preset, err := screening.PresetByName(cfg.Screening.Preset)
	if err != nil {
		return nil, err
	}
	return screening.NewTrialDifficultyModel(preset)
}
