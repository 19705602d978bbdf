// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package model holds the plumbing shared by every formal-model builder:
// structured constraint lines, identifier mirroring, fixed-variable
// records, the per-mode capability table and the S-box constraint pool.
package model

import (
	"fmt"
	"strings"
)

// TokenKind distinguishes literal solver-language text from component
// identifier references.
type TokenKind uint8

const (
	// LitToken is opaque solver text.
	LitToken TokenKind = iota
	// IDToken references a component identifier (or cipher input).
	IDToken
)

// Token is one run of a constraint line.
type Token struct {
	Kind TokenKind
	Text string
}

// Line is a single declaration or constraint, represented as an ordered
// token list rather than flat text. Identifier rewriting transforms the
// token list; nothing ever has to find identifiers inside rendered text,
// which rules out the substring collisions (e.g. "key" matching inside
// "key_schedule_output") that plague purely textual rewriting.
type Line struct {
	decl   bool
	tokens []Token
}

// Render produces the solver-language text of the line.
func (l Line) Render() string {
	var b strings.Builder
	for _, token := range l.tokens {
		b.WriteString(token.Text)
	}

	return b.String()
}

// String implements fmt.Stringer via Render.
func (l Line) String() string {
	return l.Render()
}

// IsDeclaration reports whether this line declares a variable (as opposed
// to constraining one). Declarations always survive round-window pruning.
func (l Line) IsDeclaration() bool {
	return l.decl
}

// References reports whether the line references the given identifier as a
// whole token.
func (l Line) References(id string) bool {
	for _, token := range l.tokens {
		if token.Kind == IDToken && token.Text == id {
			return true
		}
	}

	return false
}

// ReferencesAny reports whether the line references any identifier of the
// given set as a whole token.
func (l Line) ReferencesAny(ids map[string]bool) bool {
	for _, token := range l.tokens {
		if token.Kind == IDToken && ids[token.Text] {
			return true
		}
	}

	return false
}

// Identifiers returns the identifiers referenced by this line, in order of
// appearance and with duplicates retained.
func (l Line) Identifiers() []string {
	var ids []string

	for _, token := range l.tokens {
		if token.Kind == IDToken {
			ids = append(ids, token.Text)
		}
	}

	return ids
}

// mapIdentifiers returns a copy of the line with every identifier token
// rewritten through f.
func (l Line) mapIdentifiers(f func(string) string) Line {
	tokens := make([]Token, len(l.tokens))

	for i, token := range l.tokens {
		if token.Kind == IDToken {
			token.Text = f(token.Text)
		}

		tokens[i] = token
	}

	return Line{decl: l.decl, tokens: tokens}
}

// Builder assembles a line token by token.
type Builder struct {
	line Line
}

// NewLine starts a constraint line.
func NewLine() *Builder {
	return &Builder{}
}

// NewDeclaration starts a declaration line.
func NewDeclaration() *Builder {
	return &Builder{line: Line{decl: true}}
}

// Lit appends literal solver text.
func (b *Builder) Lit(text string) *Builder {
	b.line.tokens = append(b.line.tokens, Token{LitToken, text})
	return b
}

// Litf appends formatted literal solver text.
func (b *Builder) Litf(format string, args ...any) *Builder {
	return b.Lit(fmt.Sprintf(format, args...))
}

// ID appends an identifier reference.
func (b *Builder) ID(id string) *Builder {
	b.line.tokens = append(b.line.tokens, Token{IDToken, id})
	return b
}

// Line returns the assembled line.
func (b *Builder) Line() Line {
	return b.line
}

// Render renders a slice of lines to solver-language strings, preserving
// order.
func Render(lines []Line) []string {
	rendered := make([]string, len(lines))
	for i, line := range lines {
		rendered[i] = line.Render()
	}

	return rendered
}
