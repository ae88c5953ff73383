package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/caio-ramos/envdoctor/pkg/config"
	"github.com/caio-ramos/envdoctor/pkg/errors"
)

func newGenconfigCmd() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "genconfig",
		Short: "Print the default configuration as TOML",
		Long: `Genconfig renders the built-in defaults. With --write it creates
.envdoctor.toml in the current directory as a starting point.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := config.RenderDefault()
			if err != nil {
				return err
			}

			if !write {
				fmt.Print(string(out))
				return nil
			}

			workDir, err := workingDir()
			if err != nil {
				return err
			}
			path := filepath.Join(workDir, ".envdoctor.toml")
			if _, err := os.Stat(path); err == nil {
				return errors.Newf(errors.ErrInvalidInput, "%s already exists, refusing to overwrite", path)
			}
			if err := os.WriteFile(path, out, 0644); err != nil {
				return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", path)
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&write, "write", false, "Write .envdoctor.toml instead of printing")
	return cmd
}
