/*
Copyright (c) 2026 moyaru <rbffo@icloud.com>
*/

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MOYARU/posture/internal/app/output"
	"github.com/MOYARU/posture/internal/app/scan"
	"github.com/MOYARU/posture/internal/app/ui"
	"github.com/MOYARU/posture/internal/config"
	"github.com/MOYARU/posture/internal/scanners/registry"
	appver "github.com/MOYARU/posture/internal/version"
)

var (
	version = appver.Value

	jsonOutput   bool
	assumeYes    bool
	onlyFamilies []string
)

var rootCmd = &cobra.Command{
	Use:   "posture [target]",
	Short: "Posture scans a web target for leaked secrets, exposed sensitive paths, vulnerable component versions, and missing security headers, and reports a 0-100 posture score without direct exploitation.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		target := args[0]

		if !jsonOutput {
			fmt.Print(ui.ColorWhite + ui.AsciiArt + ui.ColorReset + "\n")
		}

		if !assumeYes {
			ok, err := ui.Confirm(fmt.Sprintf("Scan %s? Only scan targets you are authorized to test", target))
			if err != nil || !ok {
				return fmt.Errorf("scan aborted")
			}
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		families, err := registry.Select(onlyFamilies)
		if err != nil {
			return err
		}

		ctx, cancel := ui.WaitForCancel(context.Background())
		defer cancel()

		rep, err := scan.Run(ctx, cfg, target, families)
		if err != nil {
			fmt.Printf("%sScan failed: %v%s\n", ui.ColorRed, err, ui.ColorReset)
			os.Exit(1)
		}

		if jsonOutput {
			return output.PrintJSON(rep)
		}
		output.PrintReport(rep)
		return nil
	},
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version

	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output result as JSON")
	rootCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the authorization confirmation prompt")
	rootCmd.Flags().StringSliceVar(&onlyFamilies, "only", nil, "Run only the named scanner families (e.g. SECRET_LEAKS,SECURITY_HEADERS)")
}
