package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/jengzang/motion-profile-go/internal/config"
	"github.com/jengzang/motion-profile-go/internal/database"
	"github.com/jengzang/motion-profile-go/internal/report"
	"github.com/jengzang/motion-profile-go/internal/repository"
	"github.com/jengzang/motion-profile-go/internal/service"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run profiles the inputs named by args and returns the exit status
func run(args []string) int {
	cfg := config.Load()
	th := cfg.Thresholds

	flags := flag.NewFlagSet("profile", flag.ContinueOnError)
	var (
		dir          = flags.String("dir", "./Data", "Directory of logger CSV files")
		file         = flags.String("file", "", "Single logger CSV file (overrides -dir)")
		idleSpeed    = flags.Float64("idle-speed", th.IdleSpeedThreshold, "Idle speed threshold in m/s")
		sigmas       = flags.Float64("sigmas", th.Sigmas, "Outlier multiplier for displacement and off-time tests")
		idleDuration = flags.Float64("idle-duration", th.IdleDurationThresholdS, "Idle duration in seconds above which a stop is a charging candidate")
		chargingMode = flags.String("charging-mode", string(th.ChargingMode), "Charging time rule: per_run or distinct")
		plotDir      = flags.String("plot", "", "Write one PNG speed plot per day into this directory")
		asJSON       = flags.Bool("json", false, "Print the report as JSON")
		workers      = flags.Int("workers", cfg.Workers, "Files and days processed concurrently")
	)

	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "profile - daily motion profile of vehicle GPS logs\n\n")
		fmt.Fprintf(os.Stderr, "usage: profile -dir ./Data\n")
		fmt.Fprintf(os.Stderr, "       profile -file logger.csv -plot ./plots\n\n")
		fmt.Fprintf(os.Stderr, "options:\n")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	th = config.Thresholds{
		IdleSpeedThreshold:     *idleSpeed,
		Sigmas:                 *sigmas,
		IdleDurationThresholdS: *idleDuration,
		ChargingMode:           config.ChargingMode(*chargingMode),
	}
	if err := th.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	conn, err := database.Open(database.Config{})
	if err != nil {
		log.Printf("[Profile] Failed to open database: %v", err)
		return 1
	}
	defer conn.Close()

	svc := service.NewProfileService(repository.NewRunRepository(conn), repository.NewDaySummaryRepository(conn), *workers, cfg.SampleFile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var results []*service.ProfileResult
	failed := 0
	if *file != "" {
		res, err := svc.ProcessFile(ctx, *file, th)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		results = append(results, res)
	} else {
		batch, err := svc.ProcessDir(ctx, *dir, th)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		for _, f := range batch.Failures {
			fmt.Fprintf(os.Stderr, "Skipped %s: %v\n", f.Path, f.Err)
		}
		results = batch.Results
		failed = len(batch.Failures)
	}

	if err := output(results, *asJSON); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if *plotDir != "" {
		for _, res := range results {
			paths, err := report.PlotDays(*plotDir, res.Days, th)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return 1
			}
			log.Printf("[Report] Wrote %d plots for %s", len(paths), res.Run.Source)
		}
	}

	if failed > 0 {
		return 1
	}
	return 0
}

func output(results []*service.ProfileResult, asJSON bool) error {
	if asJSON {
		docs := make([]report.Document, len(results))
		for i, res := range results {
			docs[i] = report.Document{Run: res.Run, Days: res.Summaries()}
		}
		return report.WriteJSON(os.Stdout, docs)
	}

	for _, res := range results {
		if err := report.WriteRunHeader(os.Stdout, res.Run); err != nil {
			return err
		}
		if err := report.WriteText(os.Stdout, res.Summaries()); err != nil {
			return err
		}
		fmt.Println()
	}
	return nil
}
