// Copyright 2024 The protonet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gen

import (
	"go/token"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// goIdent converts a contract or member's declared name into a valid
// exported Go identifier, following the same sanitization rule
// protoc-gen-go applies to descriptor names (protogen/names.go's
// cleanGoName): map non-letter/digit runes to '_', then prefix with '_'
// if the result collides with a Go keyword or doesn't start with a
// letter.
func goIdent(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, s)
	r, _ := utf8.DecodeRuneInString(s)
	if token.Lookup(s).IsKeyword() || !unicode.IsLetter(r) {
		return "_" + s
	}
	return s
}

// localName strips a dotted full_name down to its last component and
// sanitizes it, e.g. "acme.shapes.Circle" -> "Circle".
func localName(fullName string) string {
	if i := strings.LastIndex(fullName, "."); i >= 0 {
		fullName = fullName[i+1:]
	}
	return goIdent(fullName)
}

// packageName derives a Go package name from a namespace string, e.g.
// "acme.shapes" -> "acme_shapes".
func packageName(namespace string) string {
	name := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return '_'
	}, namespace)
	if name == "" {
		return "contracts"
	}
	return name
}

func quote(s string) string { return strconv.Quote(s) }
