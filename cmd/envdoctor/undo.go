package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/caio-ramos/envdoctor/pkg/doctor"
	"github.com/caio-ramos/envdoctor/pkg/output"
)

func newUndoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undo [run-id]",
		Short: "Restore snapshots taken by a previous run",
		Long: `Undo reads a persisted run report (the latest, or the given run id) and
copies each recorded snapshot back over its original location.

Undo is best-effort: it restores exactly what was snapshotted. State mutated
outside the project tree — global package caches, container images, killed
processes — is not covered; per-step guidance names what to check manually.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workDir, err := workingDir()
			if err != nil {
				return err
			}

			runID := ""
			if len(args) == 1 {
				runID = args[0]
			}

			result, err := doctor.Undo(doctor.UndoOptions{WorkDir: workDir, RunID: runID})
			if err != nil {
				return err
			}

			fmt.Print(output.RenderUndo(result))
			return nil
		},
	}
}
