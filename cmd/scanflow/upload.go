package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/medseg/scanflow/internal/cli"
	"github.com/medseg/scanflow/internal/progress"
)

func uploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <archive.zip>",
		Short: "Upload a scan archive and start segmentation",
		Long: `Upload a zip archive of NIfTI scans to the backend and start the
segmentation run for it. The backend decides the effective network
configuration and echoes it back; that echoed value is what the run
uses.`,
		Args: cobra.ExactArgs(1),
		RunE: runUpload,
	}

	cmd.Flags().String("model-config", "", "requested network configuration (2d, 3d_fullres)")
	cmd.Flags().Bool("no-run", false, "upload only, do not start segmentation")

	return cmd
}

func runUpload(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, cleanup, err := initApp(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	modelConfig, _ := cmd.Flags().GetString("model-config")
	if modelConfig == "" {
		modelConfig = a.cfg.DefaultConfig
	}
	noRun, _ := cmd.Flags().GetBool("no-run")

	username, err := a.session.Username(ctx)
	if err != nil {
		return err
	}

	// The backend reports no upload progress, so the bar is simulated
	// and purely cosmetic.
	sim := progress.NewSimulator(os.Stdout, "Uploading archive")
	sim.Start()

	result, err := a.coordinator.UploadAndRun(ctx, args[0], modelConfig, username, !noRun)
	if err != nil {
		sim.Abort()
		return err
	}
	sim.Finish()

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Uploaded %s as job %s (config %s)", args[0], result.JobID, result.Config)))
	if noRun {
		fmt.Println(cli.FormatInfo("Segmentation not started (--no-run)."))
	} else {
		fmt.Println(cli.FormatInfo("Segmentation running; check back with: scanflow scans"))
	}
	return nil
}
