package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"jordanella.com/blum-go/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "manage Settings.ini",
}

var configInit = &cobra.Command{
	Use:   "init",
	Short: "write a Settings.ini with default values",
	RunE:  runConfigInit,
}

var force bool

func init() {
	configInit.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	configCmd.AddCommand(configInit)
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path := settingsPath()
	if _, err := os.Stat(path); err == nil && !force {
		return errors.Errorf("%s already exists, use --force to overwrite", path)
	}

	if err := config.SaveToINI(config.NewDefaultConfig(), path); err != nil {
		return errors.Wrap(err, "failed to write settings")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
