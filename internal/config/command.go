package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/oshokin/tire-pressure-alarm/internal/logger"
)

// errConfigExists is returned when init would overwrite a settings file.
var errConfigExists = errors.New("settings file already exists")

// AttachCobraConfigCommand adds a `config init` subcommand to root that
// writes the default settings to a YAML file.
func AttachCobraConfigCommand(root *cobra.Command) {
	var (
		output string
		force  bool
	)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default settings file.",
		Long: `Writes the built-in default settings to a YAML file that can be edited and
passed back with --config. An existing file is kept unless --force is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(cmd, output, force)
		},
	}

	initCmd.Flags().StringVarP(&output, "output", "o", DefaultConfigFilename, "path of the settings file to write")
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing settings file")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the settings file.",
	}

	configCmd.AddCommand(initCmd)
	root.AddCommand(configCmd)
}

// initConfig saves Default() to path.
func initConfig(cmd *cobra.Command, path string, force bool) error {
	path = filepath.Clean(path)

	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", errConfigExists, path)
		}
	}

	if err := Save(path, Default()); err != nil {
		return err
	}

	logger.Infof(cmd.Context(), "Default settings written to %s", path)

	return nil
}
