// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package pep508

import (
	"fmt"
	"strings"

	"github.com/datawire/pydist/pkg/python/pep503"
)

// Marker is a parsed environment marker; one of MarkerCompare, MarkerAnd, or MarkerOr.
//
// Markers are parsed and formatted, but not evaluated.
type Marker interface {
	String() string
	isMarker()
}

// MarkerValue is one operand of a marker comparison: either an environment variable (Var) or a
// string literal (Str).
type MarkerValue struct {
	Var string
	Str string
}

func (v MarkerValue) String() string {
	if v.Var != "" {
		return v.Var
	}
	if strings.Contains(v.Str, `"`) {
		return "'" + v.Str + "'"
	}
	return `"` + v.Str + `"`
}

// MarkerCompare is a single "{lhs} {op} {rhs}" comparison.
type MarkerCompare struct {
	LHS MarkerValue
	Op  string
	RHS MarkerValue
}

// MarkerAnd is a conjunction of two or more markers.
type MarkerAnd []Marker

// MarkerOr is a disjunction of two or more markers.
type MarkerOr []Marker

func (MarkerCompare) isMarker() {}
func (MarkerAnd) isMarker()     {}
func (MarkerOr) isMarker()      {}

func (m MarkerCompare) String() string {
	return m.LHS.String() + " " + m.Op + " " + m.RHS.String()
}

func (m MarkerAnd) String() string {
	parts := make([]string, 0, len(m))
	for _, child := range m {
		if _, isOr := child.(MarkerOr); isOr {
			parts = append(parts, "("+child.String()+")")
		} else {
			parts = append(parts, child.String())
		}
	}
	return strings.Join(parts, " and ")
}

func (m MarkerOr) String() string {
	parts := make([]string, 0, len(m))
	for _, child := range m {
		parts = append(parts, child.String())
	}
	return strings.Join(parts, " or ")
}

// ExtraMarker returns the marker 'extra == "{name}"', with the extra name normalized.
func ExtraMarker(name string) Marker {
	return MarkerCompare{
		LHS: MarkerValue{Var: "extra"},
		Op:  "==",
		RHS: MarkerValue{Str: pep503.NormalizeName(name)},
	}
}

// And returns the conjunction of 'a' and 'b'; either may be nil.
func And(a, b Marker) Marker {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	var ret MarkerAnd
	for _, m := range []Marker{a, b} {
		if and, ok := m.(MarkerAnd); ok {
			ret = append(ret, and...)
		} else {
			ret = append(ret, m)
		}
	}
	return ret
}

var markerVars = map[string]struct{}{
	"python_version":                 {},
	"python_full_version":            {},
	"os_name":                        {},
	"sys_platform":                   {},
	"platform_release":               {},
	"platform_system":                {},
	"platform_version":               {},
	"platform_machine":               {},
	"platform_python_implementation": {},
	"implementation_name":            {},
	"implementation_version":         {},
	"extra":                          {},
	// legacy spellings
	"os.name":                        {},
	"sys.platform":                   {},
	"platform.version":               {},
	"platform.machine":               {},
	"platform.python_implementation": {},
	"python_implementation":          {},
}

// The longest spellings come first.
var markerOps = []string{"===", "==", "!=", "~=", "<=", ">=", "<", ">", "in"}

// ParseMarker parses a PEP 508 marker expression.
func ParseMarker(str string) (Marker, error) {
	p := &markerParser{input: str}
	ret, err := p.parseOr()
	if err == nil {
		p.skipSpace()
		if p.pos < len(p.input) {
			err = fmt.Errorf("unexpected %q at position %d", p.input[p.pos:], p.pos)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("pep508.ParseMarker: %q: %w", str, err)
	}
	return ret, nil
}

type markerParser struct {
	input string
	pos   int
}

func (p *markerParser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

// keyword consumes 'word' if it is the next token.
func (p *markerParser) keyword(word string) bool {
	p.skipSpace()
	if !strings.HasPrefix(p.input[p.pos:], word) {
		return false
	}
	end := p.pos + len(word)
	if end < len(p.input) && isIdentChar(p.input[end]) && isIdentChar(word[len(word)-1]) {
		return false
	}
	p.pos = end
	return true
}

func isIdentChar(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') || c == '_' || c == '.'
}

func (p *markerParser) parseOr() (Marker, error) {
	var ret MarkerOr
	for {
		m, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		ret = append(ret, m)
		if !p.keyword("or") {
			break
		}
	}
	if len(ret) == 1 {
		return ret[0], nil
	}
	return ret, nil
}

func (p *markerParser) parseAnd() (Marker, error) {
	var ret Marker
	for {
		m, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		ret = And(ret, m)
		if !p.keyword("and") {
			break
		}
	}
	return ret, nil
}

func (p *markerParser) parseAtom() (Marker, error) {
	if p.keyword("(") {
		m, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if !p.keyword(")") {
			return nil, fmt.Errorf("expected ')' at position %d", p.pos)
		}
		return m, nil
	}
	var ret MarkerCompare
	var err error
	if ret.LHS, err = p.parseValue(); err != nil {
		return nil, err
	}
	if ret.Op, err = p.parseOp(); err != nil {
		return nil, err
	}
	if ret.RHS, err = p.parseValue(); err != nil {
		return nil, err
	}
	if (ret.LHS.Var == "") == (ret.RHS.Var == "") {
		return nil, fmt.Errorf("comparison must be between a variable and a string: %s", ret)
	}
	if ret.LHS.Var == "extra" {
		ret.RHS.Str = pep503.NormalizeName(ret.RHS.Str)
	}
	return ret, nil
}

func (p *markerParser) parseValue() (MarkerValue, error) {
	p.skipSpace()
	if p.pos >= len(p.input) {
		return MarkerValue{}, fmt.Errorf("unexpected end of marker")
	}
	if quote := p.input[p.pos]; quote == '"' || quote == '\'' {
		end := strings.IndexByte(p.input[p.pos+1:], quote)
		if end < 0 {
			return MarkerValue{}, fmt.Errorf("unterminated string at position %d", p.pos)
		}
		ret := MarkerValue{Str: p.input[p.pos+1 : p.pos+1+end]}
		p.pos += end + 2
		return ret, nil
	}
	start := p.pos
	for p.pos < len(p.input) && isIdentChar(p.input[p.pos]) {
		p.pos++
	}
	name := p.input[start:p.pos]
	if _, ok := markerVars[name]; !ok {
		return MarkerValue{}, fmt.Errorf("unknown marker variable %q at position %d", name, start)
	}
	return MarkerValue{Var: name}, nil
}

func (p *markerParser) parseOp() (string, error) {
	p.skipSpace()
	if p.keyword("not") {
		if p.keyword("in") {
			return "not in", nil
		}
		return "", fmt.Errorf("expected 'in' after 'not' at position %d", p.pos)
	}
	for _, op := range markerOps {
		if p.keyword(op) {
			return op, nil
		}
	}
	return "", fmt.Errorf("expected a comparison operator at position %d", p.pos)
}
