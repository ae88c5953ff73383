package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/caio-ramos/envdoctor/pkg/config"
	"github.com/caio-ramos/envdoctor/pkg/doctor"
	"github.com/caio-ramos/envdoctor/pkg/errors"
	"github.com/caio-ramos/envdoctor/pkg/filesystem"
	"github.com/caio-ramos/envdoctor/pkg/report"
	"github.com/caio-ramos/envdoctor/pkg/types"
)

func newReportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "report [run-id]",
		Short: "Print a persisted run report",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workDir, err := workingDir()
			if err != nil {
				return err
			}

			cfg, err := config.Load(workDir)
			if err != nil {
				return err
			}

			store := report.NewStore(filesystem.NewOS(), doctor.ResolveReportDir(cfg))

			var r *types.RunReport
			if len(args) == 1 {
				r, err = store.ByID(args[0])
			} else {
				r, err = store.Latest()
			}
			if err != nil {
				return err
			}
			if r == nil {
				fmt.Println("no run report found")
				return nil
			}

			var out []byte
			switch format {
			case "json":
				out, err = json.MarshalIndent(r, "", "  ")
			case "yaml":
				out, err = yaml.Marshal(r)
			default:
				return errors.Newf(errors.ErrInvalidInput, "unknown format %q (want json or yaml)", format)
			}
			if err != nil {
				return err
			}

			fmt.Println(string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or yaml")
	return cmd
}
