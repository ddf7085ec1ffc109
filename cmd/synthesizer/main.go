// Package main implements the scheduled Lambda that refreshes stale essence profiles.
// It is triggered by an EventBridge schedule rule.
package main

import (
	"context"
	"log"

	"sol-backend/infrastructure/config"
	"sol-backend/infrastructure/di"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"
)

var container *di.Container

func init() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg.IsLambda = true

	container, err = di.InitializeContainer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
}

// HandleRequest sweeps every profile once per scheduled event
func HandleRequest(ctx context.Context, event events.CloudWatchEvent) error {
	container.Logger.Info("Synthesis sweep triggered",
		zap.String("event_id", event.ID),
		zap.String("detail_type", event.DetailType),
	)

	report, err := container.Synthesizer.SweepAll(ctx)
	if err != nil {
		container.Logger.Error("Synthesis sweep failed", zap.Error(err))
		return err
	}

	container.Logger.Info("Synthesis sweep completed",
		zap.Int("checked", report.Checked),
		zap.Int("synthesized", report.Synthesized),
		zap.Int("failed", report.Failed),
	)
	return nil
}

func main() {
	defer container.Logger.Sync()
	lambda.Start(HandleRequest)
}
