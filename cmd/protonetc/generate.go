// Copyright 2024 The protonet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"protonet.example/protonet/gen"
)

func newGenerateCmd() *cobra.Command {
	var batchPath, outDir string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Read a contract batch and write one <namespace>.pb.go file per namespace",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(batchPath)
			if err != nil {
				return err
			}
			defer f.Close()

			batch, err := gen.LoadBatch(f)
			if err != nil {
				return err
			}

			files, err := gen.GenerateAll(batch)
			if err != nil {
				printDiagnostics(err)
				if files == nil {
					return err
				}
				// Partial output plus diagnostics: report but still write
				// what generated cleanly, matching a compiler that emits
				// object code for the files that did typecheck.
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			for _, f := range files {
				if f == nil {
					continue
				}
				path := filepath.Join(outDir, f.PackageName+".pb.go")
				if err := os.WriteFile(path, f.Content, 0o644); err != nil {
					return err
				}
				cmd.Printf("wrote %s\n", path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&batchPath, "batch", "", "path to the JSON contract batch")
	cmd.Flags().StringVar(&outDir, "out", ".", "output directory")
	cmd.MarkFlagRequired("batch")
	return cmd
}
