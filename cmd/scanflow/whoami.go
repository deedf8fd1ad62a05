package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/medseg/scanflow/internal/cli"
	"github.com/medseg/scanflow/internal/common"
)

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated backend user",
		RunE:  runWhoami,
	}
}

func runWhoami(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, cleanup, err := initApp(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	username, err := a.session.Username(ctx)
	if common.IsSessionExpired(err) {
		fmt.Println(cli.FormatWarning("Not signed in; authenticate against the backend first."))
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Signed in as %s", username)))
	return nil
}
