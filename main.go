package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/slack-go/slack"
)

func main() {
	cfg := LoadConfig()

	db, err := InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to init database: %v", err)
	}
	defer db.Close()

	os.MkdirAll(cfg.ReportOutputDir, 0755)

	var api *slack.Client
	if cfg.SlackConfigured() {
		api = slack.New(cfg.SlackBotToken)
	}

	if len(os.Args) > 1 && os.Args[1] == "assess" {
		runOnce(cfg, db, api, os.Args[2:])
		return
	}
	if len(os.Args) > 1 && os.Args[1] == "capacity" {
		runCapacity(cfg)
		return
	}

	StartAssessmentScheduler(cfg, db, api)

	log.Println("Starting impact assessment bot...")
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("Shutting down")
}

func runCapacity(cfg Config) {
	teams, err := BuildTeamCapacities(cfg, time.Now().In(cfg.Location))
	if err != nil {
		log.Fatalf("Capacity check failed: %v", err)
	}
	fmt.Println(FormatCapacitySummary(teams))
}

func runOnce(cfg Config, db *sql.DB, api *slack.Client, args []string) {
	ctx := context.Background()

	if len(args) == 0 || args[0] == "--all" {
		result, err := RunSweep(ctx, cfg, db)
		if err != nil {
			log.Fatalf("Sweep failed: %v", err)
		}
		fmt.Println(FormatSweepSummary(result))
		if api != nil {
			NotifySweep(api, cfg.AlertChannelID, result)
		}
		return
	}

	project, err := FetchProject(cfg, args[0])
	if err != nil {
		log.Fatalf("Fetch failed: %v", err)
	}
	result, err := AssessProject(ctx, cfg, db, project)
	if err != nil {
		log.Fatalf("Assessment failed: %v", err)
	}
	fmt.Printf("Project %s: %d variances (%d delayed), %d department impacts, report %s\n",
		result.ProjectNumber, result.VarianceCount, result.DelayedCount, result.ImpactCount, result.ReportPath)
	if api != nil {
		NotifyCriticalImpacts(api, cfg.AlertChannelID, result)
	}
}
