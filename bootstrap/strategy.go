package bootstrap

import (
	"sort"
	"strings"

	"github.com/kbukum/appkit/component"
)

// StrategyKind tags an InitStrategy.
type StrategyKind int

const (
	// StrategyAll selects every registered factory. It is the zero value.
	StrategyAll StrategyKind = iota
	// StrategyNone selects nothing.
	StrategyNone
	// StrategyOnly selects exactly the named entries.
	StrategyOnly
	// StrategyDeny selects every entry except the named ones.
	StrategyDeny
)

func (k StrategyKind) String() string {
	switch k {
	case StrategyAll:
		return "all"
	case StrategyNone:
		return "none"
	case StrategyOnly:
		return "only"
	case StrategyDeny:
		return "deny"
	default:
		return "unknown"
	}
}

// InitStrategy decides which registered factories run in a session.
// Entries are named by key, by label, or both; an entry is named when
// either matches. Selected entries always keep registration order, and
// nothing is added implicitly.
type InitStrategy struct {
	kind   StrategyKind
	keys   map[component.Key]struct{}
	labels map[string]struct{}
}

// All selects every registered factory.
func All() InitStrategy { return InitStrategy{kind: StrategyAll} }

// None selects nothing; the Store stays empty.
func None() InitStrategy { return InitStrategy{kind: StrategyNone} }

// Only selects exactly the given keys.
func Only(keys ...component.Key) InitStrategy {
	return InitStrategy{kind: StrategyOnly, keys: keySet(keys)}
}

// Deny selects every key except the given ones.
func Deny(keys ...component.Key) InitStrategy {
	return InitStrategy{kind: StrategyDeny, keys: keySet(keys)}
}

// OnlyLabels selects the entries whose label is listed, whatever their type.
func OnlyLabels(labels ...string) InitStrategy {
	return InitStrategy{kind: StrategyOnly, labels: labelSet(labels)}
}

// DenyLabels selects the entries whose label is not listed.
func DenyLabels(labels ...string) InitStrategy {
	return InitStrategy{kind: StrategyDeny, labels: labelSet(labels)}
}

// Kind returns the strategy tag.
func (s InitStrategy) Kind() StrategyKind { return s.kind }

// Selects reports whether the strategy runs key.
func (s InitStrategy) Selects(key component.Key) bool {
	switch s.kind {
	case StrategyAll:
		return true
	case StrategyNone:
		return false
	case StrategyOnly:
		return s.names(key)
	case StrategyDeny:
		return !s.names(key)
	default:
		return false
	}
}

// Select filters entries, keeping registration order.
func (s InitStrategy) Select(entries []component.Factory) []component.Factory {
	selected := make([]component.Factory, 0, len(entries))
	for _, f := range entries {
		if s.Selects(f.Key) {
			selected = append(selected, f)
		}
	}
	return selected
}

func (s InitStrategy) String() string {
	if s.kind == StrategyAll || s.kind == StrategyNone {
		return s.kind.String()
	}
	names := make([]string, 0, len(s.keys)+len(s.labels))
	for k := range s.keys {
		names = append(names, k.String())
	}
	for l := range s.labels {
		names = append(names, "["+l+"]")
	}
	sort.Strings(names)
	return s.kind.String() + "(" + strings.Join(names, ",") + ")"
}

func (s InitStrategy) names(key component.Key) bool {
	if _, ok := s.keys[key]; ok {
		return true
	}
	_, ok := s.labels[key.Label]
	return ok
}

func keySet(keys []component.Key) map[component.Key]struct{} {
	set := make(map[component.Key]struct{}, len(keys))
	for _, k := range keys {
		if k.Label == "" {
			k.Label = component.DefaultLabel
		}
		set[k] = struct{}{}
	}
	return set
}

func labelSet(labels []string) map[string]struct{} {
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		if l == "" {
			l = component.DefaultLabel
		}
		set[l] = struct{}{}
	}
	return set
}
