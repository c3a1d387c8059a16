package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Tags the export format is known to repeat, forced to `*` cardinality even
// when a particular document happens to hold just one.
var repeatedTags = map[string]bool{
	"SOURCEFIELD":    true,
	"TARGETFIELD":    true,
	"TRANSFORMFIELD": true,
	"CONNECTOR":      true,
	"INSTANCE":       true,
	"SESSION":        true,
	"TASKINSTANCE":   true,
}

var requiredTags = map[string]bool{
	"REPOSITORY": true,
	"FOLDER":     true,
}

var optionalTags = map[string]bool{
	"ERPINFO":                    true,
	"ASSOCIATED_SOURCE_INSTANCE": true,
}

// GenerateDTD renders a heuristic DTD for the observed statistics.
// Cardinality and attribute types are inferred from occurrence counts and
// value sets; the result is a starting point for a hand-maintained DTD, not
// a validated grammar.
func GenerateDTD(stats Stats) string {
	lines := []string{`<!DOCTYPE POWERMART SYSTEM "powrmart_custom.dtd">`}

	tags := make([]string, 0, len(stats))
	for tag := range stats {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	for _, tag := range tags {
		st := stats[tag]

		content := "EMPTY"
		if st.HasText {
			content = "PCDATA"
		}
		if len(st.Children) > 0 {
			decls := make([]string, 0, len(st.Children))
			for _, child := range st.Children {
				switch {
				case repeatedTags[child] || childOccurrences(stats, child) > 1:
					decls = append(decls, child+"*")
				case requiredTags[child]:
					decls = append(decls, child+"+")
				case optionalTags[child]:
					decls = append(decls, child+"?")
				default:
					decls = append(decls, child)
				}
			}
			content = "(" + strings.Join(decls, "|") + ")"
		}
		lines = append(lines, fmt.Sprintf("<!ELEMENT %s %s>", tag, content))

		if len(st.Attributes) == 0 {
			continue
		}

		attrNames := make([]string, 0, len(st.Attributes))
		for name := range st.Attributes {
			attrNames = append(attrNames, name)
		}
		sort.Strings(attrNames)

		lines = append(lines, fmt.Sprintf("<!ATTLIST %s", tag))
		for _, name := range attrNames {
			attr := st.Attributes[name]
			attrType := "CDATA"
			if enumerable(attr) {
				attrType = "(" + strings.Join(attr.Values, "|") + ")"
			}
			requirement := "#IMPLIED"
			if attr.Mandatory {
				requirement = "#REQUIRED"
			}
			lines = append(lines, fmt.Sprintf("    %s %s %s", name, attrType, requirement))
		}
		lines = append(lines, ">")
	}

	return strings.Join(lines, "\n")
}

// enumerable reports whether an attribute's value set is small and short
// enough to render as an enumerated DTD type.
func enumerable(attr *AttrStat) bool {
	if attr.TotalValues > 5 || len(attr.Values) == 0 {
		return false
	}
	for _, v := range attr.Values {
		if len(v) >= 20 {
			return false
		}
	}
	return true
}

func childOccurrences(stats Stats, tag string) int {
	if st, ok := stats[tag]; ok {
		return st.Occurrences
	}
	return 0
}
