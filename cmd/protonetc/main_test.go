// Copyright 2024 The protonet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

const sampleBatch = `{
	"contracts": [
		{
			"full_name": "a.Widget",
			"namespace": "a",
			"members": [
				{"field_id": 1, "name": "Count", "kind": "int32"}
			]
		}
	]
}`

func writeBatchFile(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "batch.json")
	if err := os.WriteFile(path, []byte(sampleBatch), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestValidateCommandAcceptsAWellFormedBatch(t *testing.T) {
	dir := t.TempDir()
	batchPath := writeBatchFile(t, dir)

	cmd := newValidateCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(nil)
	if err := cmd.Flags().Set("batch", batchPath); err != nil {
		t.Fatal(err)
	}
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatalf("validate failed on a well-formed batch: %v", err)
	}
}

func TestGenerateCommandWritesOneFilePerNamespace(t *testing.T) {
	dir := t.TempDir()
	batchPath := writeBatchFile(t, dir)
	outDir := filepath.Join(dir, "out")

	cmd := newGenerateCmd()
	if err := cmd.Flags().Set("batch", batchPath); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Flags().Set("out", outDir); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	cmd.SetOut(&out)
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "a.pb.go")); err != nil {
		t.Fatalf("expected a.pb.go to be written: %v", err)
	}
}

func TestValidateCommandReportsDiagnosticsForABadBatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	bad := `{"contracts": [{"full_name": "a.X", "namespace": "a",
		"members": [{"field_id": 1, "name": "A", "kind": "int32"},
		            {"field_id": 1, "name": "B", "kind": "int32"}]}]}`
	if err := os.WriteFile(path, []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := newValidateCmd()
	if err := cmd.Flags().Set("batch", path); err != nil {
		t.Fatal(err)
	}
	if err := cmd.RunE(cmd, nil); err == nil {
		t.Fatal("expected a field-id-collision diagnostic to surface as an error")
	}
}
