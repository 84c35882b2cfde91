package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/QTest-hq/reporeport/internal/config"
	"github.com/QTest-hq/reporeport/internal/syntax"
)

func (a *app) parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse FILE",
		Short: "Show the function and variable names found in a Python file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			unit, err := syntax.NewParser().ParseFile(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to parse file: %w", err)
			}

			functions := syntax.FunctionNames(unit)
			references := syntax.ReferenceNames(unit)

			fmt.Fprintf(a.stdout, "File: %s\n", unit.Path)
			fmt.Fprintf(a.stdout, "Functions (%d): %s\n", len(functions), strings.Join(functions, ", "))
			fmt.Fprintf(a.stdout, "References (%d): %s\n", len(references), strings.Join(references, ", "))
			return nil
		},
	}
}

func (a *app) initCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a default .reporeport.yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			path := filepath.Join(dir, config.FileName)
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			if err := config.SaveProjectConfig(dir, config.DefaultProjectConfig()); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}

			fmt.Fprintf(a.stdout, "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	return cmd
}
