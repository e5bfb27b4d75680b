package req

import (
	"fmt"
	"strings"
)

// LeafKind classifies a requirement leaf after token resolution.
type LeafKind string

const (
	KindInternal   LeafKind = "internal"
	KindExternal   LeafKind = "external"
	KindUnresolved LeafKind = "unresolved"
)

// Req is the requirement IR: a closed sum over Leaf, And and Or. Trees are
// immutable after construction. Key gives a canonical serialization used for
// structural equality; Valid reports whether a subtree is free of unresolved
// leaves.
type Req interface {
	isReq()
	Key() string
	Valid() bool
}

// Leaf is a single prerequisite token. For internal leaves Code holds the
// resolved catalog course code; for external/unresolved leaves Code is empty.
// Raw always preserves the original token text for diagnostics.
type Leaf struct {
	Code string
	Raw  string
	Kind LeafKind
}

type And struct {
	Items []Req
}

type Or struct {
	Items []Req
}

func (Leaf) isReq() {}
func (And) isReq()  {}
func (Or) isReq()   {}

func (l Leaf) Key() string {
	return fmt.Sprintf("leaf(%v|%v|%v)", l.Kind, l.Code, l.Raw)
}

func (a And) Key() string {
	return "and(" + joinKeys(a.Items) + ")"
}

func (o Or) Key() string {
	return "or(" + joinKeys(o.Items) + ")"
}

func (l Leaf) Valid() bool {
	return l.Kind != KindUnresolved
}

func (a And) Valid() bool {
	return allValid(a.Items)
}

func (o Or) Valid() bool {
	return allValid(o.Items)
}

func joinKeys(items []Req) string {
	keys := make([]string, len(items))
	for i, item := range items {
		keys[i] = item.Key()
	}
	return strings.Join(keys, ",")
}

func allValid(items []Req) bool {
	for _, item := range items {
		if !item.Valid() {
			return false
		}
	}
	return true
}

// Dedupe collapses structurally equal siblings, preserving insertion order of
// the first occurrence.
func Dedupe(items []Req) []Req {
	seen := make(map[string]bool, len(items))
	out := make([]Req, 0, len(items))
	for _, item := range items {
		key := item.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}

// Walk visits every node of a tree depth-first, parents before children.
func Walk(node Req, visit func(Req)) {
	if node == nil {
		return
	}
	visit(node)
	switch typed := node.(type) {
	case Leaf:
	case And:
		for _, child := range typed.Items {
			Walk(child, visit)
		}
	case Or:
		for _, child := range typed.Items {
			Walk(child, visit)
		}
	default:
		panic(fmt.Sprintf("unknown requirement node %T", node))
	}
}
