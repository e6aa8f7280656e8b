// Copyright 2024 The protonet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command protonetc is the build-time generator front end (spec §1/§5):
// it reads a JSON batch of contract descriptors — the stand-in for a
// host language's compile-time metadata pipeline, which is explicitly
// out of scope for this module — and emits one formatted Go source file
// per namespace.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "protonetc",
		Short:         "Generate protobuf-net-compatible codecs from a contract batch",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newGenerateCmd())
	cmd.AddCommand(newValidateCmd())
	return cmd
}
