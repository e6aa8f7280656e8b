// Copyright 2024 The protonet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gen

import (
	"bytes"
	"fmt"
	"go/format"
)

// printer accumulates one generated Go source file, mirroring
// protogen.GeneratedFile.P: callers append lines with P, and Content runs
// the result through go/format.Source exactly as the teacher's generator
// does before handing bytes back to its caller.
type printer struct {
	buf    bytes.Buffer
	indent int
}

// P prints one line, joining its arguments the way fmt.Print does (no
// inserted spaces), indented to the printer's current nesting depth.
func (p *printer) P(v ...interface{}) {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteByte('\t')
	}
	for _, x := range v {
		fmt.Fprint(&p.buf, x)
	}
	p.buf.WriteByte('\n')
}

// Block prints openLine, runs body at one deeper indent level, then
// prints "}" — the shape of every if/for/switch/func this generator
// emits.
func (p *printer) Block(openLine string, body func()) {
	p.P(openLine)
	p.indent++
	body()
	p.indent--
	p.P("}")
}

// Content returns the formatted source. Formatting failures surface the
// raw (unformatted) buffer alongside the error so a generator bug is easy
// to diagnose instead of silently swallowed.
func (p *printer) Content() ([]byte, error) {
	raw := p.buf.Bytes()
	out, err := format.Source(raw)
	if err != nil {
		return raw, fmt.Errorf("gen: formatting generated source: %w", err)
	}
	return out, nil
}
