package rules

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"

	"frscan/internal/types"
)

// JSONRules inspects machine-readable JSON documents. The document is parsed
// once; unparseable input yields no findings.
//
// Two passes run over a parsed document:
//  1. string values directly under the top-level "scripts" object, keyed as
//     "scripts.<name>";
//  2. every string leaf of the document, keyed by its full path including
//     array indices (e.g. "a.b[0]").
//
// Findings of the two passes are not deduplicated.
type JSONRules struct {
	Section  string
	Patterns []string
}

// NewJSONRules returns a JSON rule set inspecting the "scripts" section.
func NewJSONRules(patterns ...string) *JSONRules {
	return &JSONRules{Section: "scripts", Patterns: patterns}
}

// Scan implements RuleSet.
func (jr *JSONRules) Scan(code string) []types.Finding {
	findings := []types.Finding{}
	doc, err := parseOrdered(code)
	if err != nil {
		return findings
	}

	if section, ok := doc.get(jr.Section); ok && section.kind == kindObject {
		for _, m := range section.members {
			if m.value.kind != kindString {
				continue
			}
			keyPath := jr.Section + "." + m.key
			for _, pat := range jr.Patterns {
				if strings.Contains(m.value.str, pat) {
					findings = append(findings, types.Finding{
						Pattern: pat,
						Context: keyPath + ": " + m.value.str,
						KeyPath: keyPath,
					})
				}
			}
		}
	}

	var walk func(n *node, keyPath string)
	walk = func(n *node, keyPath string) {
		switch n.kind {
		case kindObject:
			for _, m := range n.members {
				next := m.key
				if keyPath != "" {
					next = keyPath + "." + m.key
				}
				walk(m.value, next)
			}
		case kindArray:
			for i, item := range n.items {
				walk(item, keyPath+"["+strconv.Itoa(i)+"]")
			}
		case kindString:
			for _, pat := range jr.Patterns {
				if strings.Contains(n.str, pat) {
					findings = append(findings, types.Finding{
						Pattern: pat,
						Context: keyPath + ": " + n.str,
						KeyPath: keyPath,
					})
				}
			}
		}
	}
	walk(doc, "")
	return findings
}

// Ordered JSON tree ---------------------------------------------------------------
//
// encoding/json maps lose key order, and findings must follow document order.

type nodeKind int

const (
	kindScalar nodeKind = iota
	kindString
	kindObject
	kindArray
)

type member struct {
	key   string
	value *node
}

type node struct {
	kind    nodeKind
	str     string
	members []member
	items   []*node
}

func (n *node) get(key string) (*node, bool) {
	if n.kind != kindObject {
		return nil, false
	}
	for _, m := range n.members {
		if m.key == key {
			return m.value, true
		}
	}
	return nil, false
}

var errTrailingData = errors.New("rules: trailing data after JSON document")

func parseOrdered(code string) (*node, error) {
	dec := json.NewDecoder(strings.NewReader(nonFiniteToNull(code)))
	dec.UseNumber()
	n, err := decodeNode(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errTrailingData
	}
	return n, nil
}

func decodeNode(dec *json.Decoder) (*node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			n := &node{kind: kindObject}
			index := map[string]int{}
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := kt.(string)
				if !ok {
					return nil, errors.New("rules: object key is not a string")
				}
				child, err := decodeNode(dec)
				if err != nil {
					return nil, err
				}
				// Duplicate keys keep their first position and the last value.
				if i, dup := index[key]; dup {
					n.members[i].value = child
					continue
				}
				index[key] = len(n.members)
				n.members = append(n.members, member{key: key, value: child})
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return n, nil
		case '[':
			n := &node{kind: kindArray}
			for dec.More() {
				child, err := decodeNode(dec)
				if err != nil {
					return nil, err
				}
				n.items = append(n.items, child)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return n, nil
		}
		return nil, errors.New("rules: unexpected delimiter")
	case string:
		return &node{kind: kindString, str: v}, nil
	default:
		return &node{kind: kindScalar}, nil
	}
}

// nonFiniteToNull rewrites the bare NaN, Infinity and -Infinity constants that
// lenient JSON writers emit into null. String contents are left untouched.
func nonFiniteToNull(code string) string {
	if !strings.Contains(code, "NaN") && !strings.Contains(code, "Infinity") {
		return code
	}
	var b strings.Builder
	b.Grow(len(code))
	inString, escaped := false, false
	for i := 0; i < len(code); {
		c := code[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			b.WriteByte(c)
			i++
			continue
		}
		lit := ""
		switch {
		case c == '"':
			inString = true
		case strings.HasPrefix(code[i:], "NaN"):
			lit = "NaN"
		case strings.HasPrefix(code[i:], "-Infinity"):
			lit = "-Infinity"
		case strings.HasPrefix(code[i:], "Infinity"):
			lit = "Infinity"
		}
		if lit != "" {
			b.WriteString("null")
			i += len(lit)
			continue
		}
		b.WriteByte(c)
		i++
	}
	return b.String()
}
