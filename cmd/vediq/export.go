// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the knowledge base to a JSON or YAML file",
	Long: `Export writes every stored rule to a structured file. When --output is
not given the file is placed in the configured export directory with a
date-stamped name.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "json" && format != "yaml" {
		return fmt.Errorf("unsupported export format %q: use json or yaml", format)
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		cfg := loadConfig()
		name := fmt.Sprintf("vediq-export-%s.%s", time.Now().Format("2006-01-02"), format)
		output = filepath.Join(cfg.Export.Dir, name)
	}

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	switch format {
	case "json":
		err = store.ExportJSON(ctx, output)
	case "yaml":
		err = store.ExportYAML(ctx, output)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Exported knowledge base to %s\n", output)
	return nil
}

func init() {
	exportCmd.Flags().String("format", "json", "export format: json or yaml")
	exportCmd.Flags().StringP("output", "o", "", "output file path")

	rootCmd.AddCommand(exportCmd)
}
