package main

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/draftwise/draft-api/internal/artifacts"
	"github.com/draftwise/draft-api/internal/config"
	"github.com/draftwise/draft-api/internal/logic"
)

type env struct {
	cfg      *config.Config
	logger   *zap.Logger
	store    *artifacts.Store
	registry *artifacts.Registry
}

func setup() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	store := artifacts.NewStore(logger)
	registry, err := artifacts.NewRegistry(cfg.ArtifactsDir, store, logger)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, logger: logger, store: store, registry: registry}, nil
}

func newTrainCmd() *cobra.Command {
	var dataDir string

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Build model artifacts from parsed match data and register them",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			defer e.logger.Sync()

			if dataDir == "" {
				dataDir = e.cfg.DataDir
			}
			svc := logic.NewTrainingService(dataDir, e.store, e.registry, e.cfg.SmoothingConfig(), e.logger)
			result, err := svc.Train(cmd.Context())
			if err != nil {
				return err
			}
			if !result.Produced {
				fmt.Printf("No artifact produced: %s\n", result.Reason)
				return nil
			}
			fmt.Printf("Registered run %s (%s) from %d participant rows\n",
				result.RunID, result.Version, result.RowsCount)
			return nil
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", "", "Override parsed data directory")
	return cmd
}

func newVersionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "versions",
		Short: "List registered model versions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			defer e.logger.Sync()

			versions, err := e.registry.ListVersions()
			if err != nil {
				return err
			}
			if len(versions) == 0 {
				fmt.Println("No versions registered")
				return nil
			}
			for _, v := range versions {
				ts := time.Unix(int64(v.Timestamp), 0).UTC().Format(time.RFC3339)
				fmt.Printf("%s  %s  registered %s\n", v.RunID, v.Version, ts)
			}
			return nil
		},
	}
}

func newCurrentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the currently served model version",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			defer e.logger.Sync()

			current, err := e.registry.CurrentVersion()
			if err != nil {
				return err
			}
			if current == nil {
				fmt.Println("No model registered")
				return nil
			}
			fmt.Printf("%s (%s)\n", current.RunID, current.Version)
			return nil
		},
	}
}

func newRollbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rollback",
		Short: "Swap the current model with the previous one",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			defer e.logger.Sync()

			if err := e.registry.Rollback(); err != nil {
				return err
			}
			current, err := e.registry.CurrentVersion()
			if err == nil && current != nil {
				fmt.Printf("Rolled back to %s (%s)\n", current.RunID, current.Version)
			} else {
				fmt.Println("Rolled back")
			}
			return nil
		},
	}
}
