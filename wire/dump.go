// Copyright 2024 The protonet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"strings"
)

// Dump renders a human-readable trace of the tags, wire types, and values
// in buf, for diagnosing a wire-compatibility mismatch against
// protobuf-net interactively. It is not part of the codec surface that
// generated code calls; ported from protobuf3.Buffer.DebugPrint.
func Dump(buf []byte) string {
	var b strings.Builder
	r := NewReader(buf)
	depth := 0

	for !r.Done() {
		start := r.pos
		fieldID, wireType, err := r.Tag()
		if err != nil {
			fmt.Fprintf(&b, "%3d: tag error: %v\n", start, err)
			return b.String()
		}
		indent := strings.Repeat("  ", depth)

		switch wireType {
		case Bytes:
			raw, err := r.Bytes()
			if err != nil {
				fmt.Fprintf(&b, "%s%3d: field=%d bytes error: %v\n", indent, start, fieldID, err)
				return b.String()
			}
			fmt.Fprintf(&b, "%s%3d: field=%d len=%2d bytes=% x\n", indent, start, fieldID, len(raw), dumpTruncate(raw))
		case Fixed32:
			v, err := r.Fixed32()
			if err != nil {
				fmt.Fprintf(&b, "%s%3d: field=%d fixed32 error: %v\n", indent, start, fieldID, err)
				return b.String()
			}
			fmt.Fprintf(&b, "%s%3d: field=%d fixed32=%d\n", indent, start, fieldID, v)
		case Fixed64:
			v, err := r.Fixed64()
			if err != nil {
				fmt.Fprintf(&b, "%s%3d: field=%d fixed64 error: %v\n", indent, start, fieldID, err)
				return b.String()
			}
			fmt.Fprintf(&b, "%s%3d: field=%d fixed64=%d\n", indent, start, fieldID, v)
		case Varint:
			v, err := r.Varint()
			if err != nil {
				fmt.Fprintf(&b, "%s%3d: field=%d varint error: %v\n", indent, start, fieldID, err)
				return b.String()
			}
			fmt.Fprintf(&b, "%s%3d: field=%d varint=%d\n", indent, start, fieldID, v)
		case StartGroup:
			fmt.Fprintf(&b, "%s%3d: field=%d start-group\n", indent, start, fieldID)
			depth++
		case EndGroup:
			depth--
			fmt.Fprintf(&b, "%s%3d: field=%d end-group\n", indent, start, fieldID)
		}
	}
	if depth != 0 {
		fmt.Fprintf(&b, "warning: %d unterminated group(s)\n", depth)
	}
	return b.String()
}

func dumpTruncate(b []byte) []byte {
	if len(b) <= 6 {
		return b
	}
	out := make([]byte, 0, 7)
	out = append(out, b[:3]...)
	out = append(out, b[len(b)-3:]...)
	return out
}
