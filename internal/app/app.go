// Package app provides the palettor command line tool.
package app

import (
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-colorable"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/palettor/palettor/configs"
)

var rootCmd = &cobra.Command{
	Use:               "palettor",
	Short:             "reduce images to indexed color palettes",
	PersistentPreRunE: appPersistentPreRun,
	SilenceUsage:      true,
}

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVarP(
		&configPath, "config", "c",
		"", "Configuration file",
	)
	rootCmd.PersistentFlags().StringVarP(
		&configs.Config.Main.LogLevel, "level", "l",
		configs.Config.Main.LogLevel, "Log level",
	)

	rootCmd.AddCommand(configCmd)
}

func appPersistentPreRun(_ *cobra.Command, _ []string) error {
	if err := configs.LoadConfiguration(configPath); err != nil {
		return fmt.Errorf("error loading configuration (%s)", err)
	}

	// Enforce debug in dev mode
	if configs.Config.Main.DevMode {
		configs.Config.Main.LogLevel = "debug"
	}

	// Setup logger
	lvl, err := log.ParseLevel(configs.Config.Main.LogLevel)
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
	log.WithField("log_level", lvl).Debug()
	if configs.Config.Main.DevMode {
		log.SetFormatter(&log.TextFormatter{
			ForceColors: true,
		})
		log.SetOutput(colorable.NewColorableStdout())
		log.SetLevel(log.TraceLevel)
	}

	return nil
}

var configCmd = &cobra.Command{
	Use:   "config [file]",
	Short: "write the default configuration to a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		if err := createConfigFile(args[0]); err != nil {
			return err
		}
		return configs.WriteConfig(args[0])
	},
}

func createConfigFile(filename string) error {
	_, err := os.Stat(filename)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		fd, err := os.OpenFile(filename, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
		if err != nil {
			return err
		}
		if err = fd.Close(); err != nil {
			return err
		}
	}
	return nil
}

// Run starts the application
func Run() error {
	return rootCmd.Execute()
}
