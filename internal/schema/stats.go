// Package schema derives per-element statistics from an XML export and
// generates a heuristic DTD from them. It shares no state with the
// extraction core.
package schema

import (
	"sort"

	"infacat/internal/xmltree"
)

// maxSampledValues caps how many distinct attribute values are carried in
// the output; TotalValues keeps the real count.
const maxSampledValues = 10

// AttrStat describes one attribute of one element kind.
type AttrStat struct {
	Values      []string `json:"values"`
	TotalValues int      `json:"total_values"`
	Occurrences int      `json:"occurrences"`
	Mandatory   bool     `json:"mandatory"`
}

// ElementStat describes one element kind observed in the document.
type ElementStat struct {
	Attributes  map[string]*AttrStat `json:"attributes"`
	Children    []string             `json:"children"`
	Parents     []string             `json:"parents"`
	Occurrences int                  `json:"occurrences"`
	HasText     bool                 `json:"has_text"`
}

// Stats maps element tag to its statistics.
type Stats map[string]*ElementStat

type attrAcc struct {
	values      map[string]struct{}
	occurrences int
}

type elementAcc struct {
	attrs       map[string]*attrAcc
	children    map[string]struct{}
	parents     map[string]struct{}
	occurrences int
	hasText     bool
}

// Extract walks the tree once and returns per-tag statistics. All name and
// value lists are sorted so the output is deterministic.
func Extract(root *xmltree.Element) Stats {
	accs := map[string]*elementAcc{}

	var walk func(el *xmltree.Element, parent string)
	walk = func(el *xmltree.Element, parent string) {
		acc, ok := accs[el.Tag]
		if !ok {
			acc = &elementAcc{
				attrs:    map[string]*attrAcc{},
				children: map[string]struct{}{},
				parents:  map[string]struct{}{},
			}
			accs[el.Tag] = acc
		}
		acc.occurrences++
		if parent != "" {
			acc.parents[parent] = struct{}{}
		}
		if el.Text != "" {
			acc.hasText = true
		}

		for _, a := range el.Attrs {
			aa, ok := acc.attrs[a.Name]
			if !ok {
				aa = &attrAcc{values: map[string]struct{}{}}
				acc.attrs[a.Name] = aa
			}
			aa.values[a.Value] = struct{}{}
			aa.occurrences++
		}

		for _, c := range el.Children {
			acc.children[c.Tag] = struct{}{}
			walk(c, el.Tag)
		}
	}
	walk(root, "")

	stats := Stats{}
	for tag, acc := range accs {
		st := &ElementStat{
			Attributes:  map[string]*AttrStat{},
			Children:    sortedKeys(acc.children),
			Parents:     sortedKeys(acc.parents),
			Occurrences: acc.occurrences,
			HasText:     acc.hasText,
		}
		for name, aa := range acc.attrs {
			values := make([]string, 0, len(aa.values))
			for v := range aa.values {
				values = append(values, v)
			}
			sort.Strings(values)
			total := len(values)
			if len(values) > maxSampledValues {
				values = values[:maxSampledValues]
			}
			st.Attributes[name] = &AttrStat{
				Values:      values,
				TotalValues: total,
				Occurrences: aa.occurrences,
				Mandatory:   aa.occurrences == acc.occurrences,
			}
		}
		stats[tag] = st
	}
	return stats
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
