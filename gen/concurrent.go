// Copyright 2024 The protonet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gen

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	protoerrors "protonet.example/protonet/internal/errors"
)

// generateConcurrently runs one GenerateFile pass per namespace in
// parallel. Diagnostics from every namespace are collected rather than
// aborting on the first, same as BuildGraph (spec §3's "a single run
// reports every defect").
func generateConcurrently(g *Graph, byNS map[string][]*Contract, namespaces []string) ([]*File, error) {
	files := make([]*File, len(namespaces))
	allDiags := make([]protoerrors.Diagnostics, len(namespaces))

	eg, _ := errgroup.WithContext(context.Background())
	for i, ns := range namespaces {
		i, ns := i, ns
		eg.Go(func() error {
			f, err := GenerateFile(g, ns, byNS[ns])
			if ds, ok := err.(protoerrors.Diagnostics); ok {
				// A namespace with diagnostics produces no file.
				allDiags[i] = ds
				return nil
			}
			files[i] = f
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var diags protoerrors.Diagnostics
	for _, ds := range allDiags {
		diags = append(diags, ds...)
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i] != nil && (files[j] == nil || files[i].Namespace < files[j].Namespace)
	})
	if len(diags) > 0 {
		return files, diags
	}
	return files, nil
}
