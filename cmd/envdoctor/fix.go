package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/caio-ramos/envdoctor/pkg/doctor"
	"github.com/caio-ramos/envdoctor/pkg/logging"
	"github.com/caio-ramos/envdoctor/pkg/output"
	"github.com/caio-ramos/envdoctor/pkg/types"
)

func newFixCmd() *cobra.Command {
	var (
		dryRun  bool
		deep    bool
		approve bool
		yes     bool
	)

	cmd := &cobra.Command{
		Use:   "fix",
		Short: "Plan and execute dev-environment fixes",
		Long: `Fix detects what is broken, plans remediation steps, and executes them.

Destructive steps (deleting caches, killing port holders, stopping
containers) only run with --deep or --approve, or after an interactive
per-step confirmation. Without either, they are reported as proposals.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cmd.fix")

			workDir, err := workingDir()
			if err != nil {
				return err
			}

			mode := types.ModeApply
			if dryRun {
				mode = types.ModeDryRun
			}

			interactive := output.StdinIsTerminal() && !yes
			var confirm types.Confirmer = types.DeclineAll{}
			if yes {
				confirm = types.AcceptAll{}
			} else if interactive {
				confirm = output.PTermConfirmer{}
			}

			logger.Info().
				Bool("dryRun", dryRun).
				Bool("deep", deep).
				Bool("approve", approve).
				Msg("Starting fix")

			report, err := doctor.Run(cmd.Context(), doctor.Options{
				WorkDir:     workDir,
				Mode:        mode,
				Deep:        deep,
				Approve:     approve || yes,
				Interactive: interactive,
				Confirm:     confirm,
			})
			if err != nil {
				return err
			}

			if mode.Dry() {
				fmt.Print(output.RenderPlan(report.Steps))
				return nil
			}

			fmt.Print(output.RenderResults(report))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview the plan without executing anything")
	cmd.Flags().BoolVar(&deep, "deep", false, "Authorize destructive steps (cache cleans, port kills)")
	cmd.Flags().BoolVar(&approve, "approve", false, "Authorize destructive steps without prompting")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Assume yes for every confirmation")

	return cmd
}

func newPlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Show the remediation plan without executing it",
		RunE: func(cmd *cobra.Command, args []string) error {
			workDir, err := workingDir()
			if err != nil {
				return err
			}

			report, err := doctor.Run(cmd.Context(), doctor.Options{
				WorkDir: workDir,
				Mode:    types.ModeDryRun,
			})
			if err != nil {
				return err
			}

			fmt.Print(output.RenderPlan(report.Steps))
			return nil
		},
	}
}

func newDiagnoseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diagnose",
		Short: "Report what was detected and what would be planned",
		RunE: func(cmd *cobra.Command, args []string) error {
			workDir, err := workingDir()
			if err != nil {
				return err
			}

			det, steps, err := doctor.Diagnose(workDir, nil)
			if err != nil {
				return err
			}

			fmt.Printf("node: %v  python: %v  docker: %v\n", det.HasNode, det.HasPython, det.HasDocker)
			if det.NodeLockfile != "" {
				fmt.Printf("node lockfile: %s\n", det.NodeLockfile)
			}
			if det.PythonManager != "" {
				fmt.Printf("python manager: %s\n", det.PythonManager)
			}
			fmt.Println()
			fmt.Print(output.RenderPlan(steps))
			return nil
		},
	}
}
