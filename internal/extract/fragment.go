package extract

import (
	"log/slog"

	"infacat/internal/xmltree"
)

// Element and attribute names of the upstream export format. Downstream
// tooling depends on these verbatim.
const (
	tagRepository     = "REPOSITORY"
	tagSource         = "SOURCE"
	tagTarget         = "TARGET"
	tagSourceField    = "SOURCEFIELD"
	tagTargetField    = "TARGETFIELD"
	tagTransformation = "TRANSFORMATION"
	tagTransformField = "TRANSFORMFIELD"
	tagMapping        = "MAPPING"
	tagInstance       = "INSTANCE"
	tagConnector      = "CONNECTOR"
	tagWorkflow       = "WORKFLOW"
	tagSession        = "SESSION"

	attrName         = "NAME"
	attrDBDName      = "DBDNAME"
	attrOwnerName    = "OWNERNAME"
	attrType         = "TYPE"
	attrMappingName  = "MAPPINGNAME"
	attrFromInstance = "FROMINSTANCE"
	attrFromField    = "FROMFIELD"
	attrToInstance   = "TOINSTANCE"
	attrToField      = "TOFIELD"
)

// Fragment is a partial nested catalog keyed by name at every level, with
// FieldRef leaves. Fragments from independent subtrees are combined with
// Merge.
type Fragment = map[string]any

// FieldRef is the leaf record of every catalog: the registered identity of
// one field.
type FieldRef struct {
	ID int `json:"id"`
}

// InstanceTypes maps an instance name to its declared TYPE string, scoped
// to one mapping. Connectors reference instances, not artifact definitions,
// so lineage resolution consults this map.
type InstanceTypes = map[string]string

// buildDBFragment turns one SOURCE or TARGET element into a
// db → schema → table → field catalog fragment, registering every field
// identity under the given kind. The kind is decided by the caller; it also
// selects the field child tag.
func buildDBFragment(el *xmltree.Element, kind Kind, reg *Registry) Fragment {
	dbName := el.Attr(attrDBDName)
	schemaName := el.Attr(attrOwnerName)
	tableName := el.Attr(attrName)

	fieldTag := tagSourceField
	if kind == KindTarget {
		fieldTag = tagTargetField
	}

	fields := Fragment{}
	for _, f := range el.ChildrenByTag(fieldTag) {
		fieldName := f.Attr(attrName)
		fields[fieldName] = FieldRef{ID: reg.GetOrCreate(kind, tableName, fieldName)}
	}

	return Fragment{dbName: Fragment{schemaName: Fragment{tableName: fields}}}
}

// buildTransformFragment turns one TRANSFORMATION element into a
// transform → field fragment under the TRANSFORMFIELD namespace.
func buildTransformFragment(el *xmltree.Element, reg *Registry) Fragment {
	name := el.Attr(attrName)

	fields := Fragment{}
	for _, f := range el.ChildrenByTag(tagTransformField) {
		fieldName := f.Attr(attrName)
		fields[fieldName] = FieldRef{ID: reg.GetOrCreate(KindTransformField, name, fieldName)}
	}

	return Fragment{name: fields}
}

// buildMappingFragment turns one MAPPING element into a mapping → transforms
// fragment and collects the mapping's instance declarations. A nil element
// yields empty results rather than failing.
func buildMappingFragment(el *xmltree.Element, reg *Registry) (Fragment, InstanceTypes) {
	if el == nil {
		return Fragment{}, InstanceTypes{}
	}

	name := el.Attr(attrName)

	transforms := Fragment{}
	for _, tr := range el.ChildrenByTag(tagTransformation) {
		Merge(transforms, buildTransformFragment(tr, reg))
	}

	types := InstanceTypes{}
	for _, inst := range el.ChildrenByTag(tagInstance) {
		types[inst.Attr(attrName)] = inst.Attr(attrType)
	}

	return Fragment{name: transforms}, types
}

// buildWorkflowFragment turns one WORKFLOW element into a
// workflow → session → mapping fragment. Each session names a mapping, which
// is resolved by first match among the already-collected mapping elements;
// sessions with no match are skipped with a warning. Re-building a mapping
// is idempotent because the registry is memoized.
func buildWorkflowFragment(el *xmltree.Element, mappings []*xmltree.Element, reg *Registry, logger *slog.Logger) Fragment {
	name := el.Attr(attrName)

	sessions := Fragment{}
	for _, sess := range el.ChildrenByTag(tagSession) {
		sessionName := sess.Attr(attrName)
		mappingName := sess.Attr(attrMappingName)

		var mappingEl *xmltree.Element
		for _, m := range mappings {
			if m.Attr(attrName) == mappingName {
				mappingEl = m
				break
			}
		}
		if mappingEl == nil {
			logger.Warn("session references unknown mapping",
				"workflow", name,
				"session", sessionName,
				"mapping", mappingName,
			)
			continue
		}

		fragment, _ := buildMappingFragment(mappingEl, reg)
		sessions[sessionName] = fragment
	}

	return Fragment{name: sessions}
}
