package extract

import (
	"log/slog"

	"infacat/internal/xmltree"
)

// Edge is one directed field-level lineage edge, marshaled as the
// [fromId, toId] pair the downstream tooling expects.
type Edge [2]int

// declaredKind maps an instance's declared TYPE string to the identity
// namespace its fields were registered under. Anything undeclared or unknown
// is treated as a transform step — the most common unresolved case.
func declaredKind(typ string, ok bool) Kind {
	if !ok {
		return KindTransformField
	}
	switch typ {
	case "SOURCE":
		return KindSource
	case "TARGET":
		return KindTarget
	case "TRANSFORMATION":
		return KindTransformField
	default:
		return KindTransformField
	}
}

// resolveLineage emits one edge per CONNECTOR child of the mapping whose
// both endpoints resolve to registered identities. Connectors with an
// unresolved endpoint are dropped with an info log — forward references and
// partial exports are an expected steady state, never an error. Edges keep
// connector document order and are not deduplicated.
func resolveLineage(mappingEl *xmltree.Element, types InstanceTypes, reg *Registry, logger *slog.Logger) []Edge {
	if mappingEl == nil {
		return nil
	}

	mappingName := mappingEl.Attr(attrName)

	var edges []Edge
	for _, conn := range mappingEl.ChildrenByTag(tagConnector) {
		fromInstance := conn.Attr(attrFromInstance)
		fromField := conn.Attr(attrFromField)
		toInstance := conn.Attr(attrToInstance)
		toField := conn.Attr(attrToField)

		fromType, fromDeclared := types[fromInstance]
		toType, toDeclared := types[toInstance]

		fromID, fromOK := reg.Lookup(declaredKind(fromType, fromDeclared), fromInstance, fromField)
		toID, toOK := reg.Lookup(declaredKind(toType, toDeclared), toInstance, toField)

		if !fromOK || !toOK {
			logger.Info("unmapped lineage connector",
				"mapping", mappingName,
				"from", fromInstance+"."+fromField,
				"from_type", fromType,
				"to", toInstance+"."+toField,
				"to_type", toType,
			)
			continue
		}

		edges = append(edges, Edge{fromID, toID})
	}

	return edges
}
