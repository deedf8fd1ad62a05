package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/medseg/scanflow/internal/cli"
	"github.com/medseg/scanflow/internal/model"
	"github.com/medseg/scanflow/internal/service"
)

func trainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train <task-id>...",
		Short: "Queue a training run over submitted tasks",
		Long: `Queue a segmentation-model training run for one dataset. The tasks
named must already have been submitted into that dataset with
scanflow submit.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runTrain,
	}

	cmd.Flags().String("dataset", "", "dataset to train (brain, heart)")
	cmd.Flags().String("resolution", "3d_fullres", "network resolution (2d, 3d, 3d_fullres)")
	cmd.Flags().String("folds", "all", "cross-validation folds to train")
	_ = cmd.MarkFlagRequired("dataset")

	return cmd
}

func runTrain(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, cleanup, err := initApp(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	datasetFlag, _ := cmd.Flags().GetString("dataset")
	datasetID, err := model.DatasetType(datasetFlag).DatasetID()
	if err != nil {
		return err
	}

	resolution, _ := cmd.Flags().GetString("resolution")
	folds, _ := cmd.Flags().GetString("folds")

	taskIDs := make([]int, 0, len(args))
	for _, arg := range args {
		id, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("invalid task id %q", arg)
		}
		taskIDs = append(taskIDs, id)
	}

	req := service.TrainingRequest{
		DatasetID:  datasetID,
		Resolution: model.ResolutionMode(resolution),
		Folds:      folds,
		TaskIDs:    taskIDs,
	}
	if err := a.coordinator.StartTraining(ctx, req); err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf(
		"Training queued for the %s dataset (%s, folds %s, %d task(s))",
		datasetFlag, resolution, folds, len(taskIDs))))
	return nil
}
