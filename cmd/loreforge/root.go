// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LoreForge Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/loreforge/loreforge/internal/config"
	"github.com/loreforge/loreforge/internal/xdg"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the LoreForge CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loreforge",
		Short: "LoreForge - faction simulation for narrative worlds",
		Long: `LoreForge manages faction hierarchies, ideologies, leadership,
membership, resources, and territorial control for narrative world
building, backed by PostgreSQL.`,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSeedCmd())

	return cmd
}

// loadConfig resolves the effective configuration for a command. When no
// --config flag is given, the XDG config file is used if present.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := configFile
	if path == "" {
		path = xdg.ConfigFile()
	}
	return config.Load(path, cmd.Flags())
}
