// Copyright 2024 The protonet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"protonet.example/protonet/gen"
	protoerrors "protonet.example/protonet/internal/errors"
)

func newValidateCmd() *cobra.Command {
	var batchPath string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a contract batch for inheritance/field-id defects without generating code",
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

			if _, err := gen.BuildGraph(batch); err != nil {
				printDiagnostics(err)
				return err
			}
			color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "ok: no diagnostics")
			return nil
		},
	}
	cmd.Flags().StringVar(&batchPath, "batch", "", "path to the JSON contract batch")
	cmd.MarkFlagRequired("batch")
	return cmd
}

// printDiagnostics renders each diagnostic one per line in red, the way
// a build tool reports compile errors — one line per defect so a CI log
// scrolls cleanly past a batch with many unrelated problems.
func printDiagnostics(err error) {
	red := color.New(color.FgRed)
	if ds, ok := err.(protoerrors.Diagnostics); ok {
		for _, d := range ds {
			red.Fprintln(os.Stderr, d.Error())
		}
		return
	}
	red.Fprintln(os.Stderr, err.Error())
}
