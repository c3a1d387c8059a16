package extract

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infacat/internal/xmltree"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func element(tag string, attrs map[string]string, children ...*xmltree.Element) *xmltree.Element {
	el := &xmltree.Element{Tag: tag, Children: children}
	for _, name := range []string{"DBDNAME", "OWNERNAME", "NAME", "TYPE", "MAPPINGNAME", "FROMINSTANCE", "FROMFIELD", "TOINSTANCE", "TOFIELD", "DATATYPE"} {
		if v, ok := attrs[name]; ok {
			el.Attrs = append(el.Attrs, xmltree.Attr{Name: name, Value: v})
		}
	}
	return el
}

func TestBuildDBFragment(t *testing.T) {
	t.Run("source_with_two_fields", func(t *testing.T) {
		reg := NewRegistry()
		src := element("SOURCE",
			map[string]string{"DBDNAME": "TestDB", "OWNERNAME": "dbo", "NAME": "TestTable"},
			element("SOURCEFIELD", map[string]string{"NAME": "TestCol", "DATATYPE": "int"}),
			element("SOURCEFIELD", map[string]string{"NAME": "TestCol2", "DATATYPE": "varchar"}),
		)

		got := buildDBFragment(src, KindSource, reg)

		want := Fragment{
			"TestDB": Fragment{
				"dbo": Fragment{
					"TestTable": Fragment{
						"TestCol":  FieldRef{ID: 1},
						"TestCol2": FieldRef{ID: 2},
					},
				},
			},
		}
		assert.Equal(t, want, got)
	})

	t.Run("target_uses_targetfield_children", func(t *testing.T) {
		reg := NewRegistry()
		tgt := element("TARGET",
			map[string]string{"DBDNAME": "DW", "OWNERNAME": "dbo", "NAME": "DimCustomer"},
			element("TARGETFIELD", map[string]string{"NAME": "Key"}),
			// A stray SOURCEFIELD under a target is not a field of it.
			element("SOURCEFIELD", map[string]string{"NAME": "Ignored"}),
		)

		got := buildDBFragment(tgt, KindTarget, reg)

		fields := got["DW"].(Fragment)["dbo"].(Fragment)["DimCustomer"].(Fragment)
		require.Len(t, fields, 1)
		assert.Equal(t, FieldRef{ID: 1}, fields["Key"])

		id, ok := reg.Lookup(KindTarget, "DimCustomer", "Key")
		require.True(t, ok)
		assert.Equal(t, 1, id)
	})

	t.Run("missing_field_name_collapses_to_one_slot", func(t *testing.T) {
		reg := NewRegistry()
		src := element("SOURCE",
			map[string]string{"DBDNAME": "TestDB", "OWNERNAME": "dbo", "NAME": "TestTable"},
			element("SOURCEFIELD", map[string]string{"DATATYPE": "int"}),
			element("SOURCEFIELD", map[string]string{"DATATYPE": "varchar"}),
		)

		got := buildDBFragment(src, KindSource, reg)

		fields := got["TestDB"].(Fragment)["dbo"].(Fragment)["TestTable"].(Fragment)
		require.Len(t, fields, 1)
		assert.Equal(t, FieldRef{ID: 1}, fields[""])
		assert.Equal(t, 1, reg.Len())
	})
}

func TestBuildTransformFragment(t *testing.T) {
	reg := NewRegistry()
	tr := element("TRANSFORMATION",
		map[string]string{"NAME": "SQ_Test"},
		element("TRANSFORMFIELD", map[string]string{"NAME": "TestCol"}),
		element("TRANSFORMFIELD", map[string]string{"NAME": "TestCol2"}),
	)

	got := buildTransformFragment(tr, reg)

	want := Fragment{
		"SQ_Test": Fragment{
			"TestCol":  FieldRef{ID: 1},
			"TestCol2": FieldRef{ID: 2},
		},
	}
	assert.Equal(t, want, got)

	id, ok := reg.Lookup(KindTransformField, "SQ_Test", "TestCol")
	require.True(t, ok)
	assert.Equal(t, 1, id)
}

func TestBuildMappingFragment(t *testing.T) {
	t.Run("transforms_and_instance_types", func(t *testing.T) {
		reg := NewRegistry()
		mapping := element("MAPPING",
			map[string]string{"NAME": "m_test"},
			element("TRANSFORMATION",
				map[string]string{"NAME": "SQ_Test"},
				element("TRANSFORMFIELD", map[string]string{"NAME": "TestCol"}),
			),
			element("INSTANCE", map[string]string{"NAME": "TestTable", "TYPE": "SOURCE"}),
			element("INSTANCE", map[string]string{"NAME": "SQ_Test", "TYPE": "TRANSFORMATION"}),
		)

		fragment, types := buildMappingFragment(mapping, reg)

		wantFragment := Fragment{
			"m_test": Fragment{
				"SQ_Test": Fragment{"TestCol": FieldRef{ID: 1}},
			},
		}
		assert.Equal(t, wantFragment, fragment)
		assert.Equal(t, InstanceTypes{"TestTable": "SOURCE", "SQ_Test": "TRANSFORMATION"}, types)
	})

	t.Run("nil_element_yields_empty", func(t *testing.T) {
		fragment, types := buildMappingFragment(nil, NewRegistry())
		assert.Equal(t, Fragment{}, fragment)
		assert.Empty(t, types)
	})
}

func TestBuildWorkflowFragment(t *testing.T) {
	mapping := element("MAPPING",
		map[string]string{"NAME": "m_load"},
		element("TRANSFORMATION",
			map[string]string{"NAME": "EXP_Clean"},
			element("TRANSFORMFIELD", map[string]string{"NAME": "Out"}),
		),
	)

	t.Run("session_resolves_mapping_by_name", func(t *testing.T) {
		reg := NewRegistry()
		wf := element("WORKFLOW",
			map[string]string{"NAME": "wf_nightly"},
			element("SESSION", map[string]string{"NAME": "s_load", "MAPPINGNAME": "m_load"}),
		)

		got := buildWorkflowFragment(wf, []*xmltree.Element{mapping}, reg, discardLogger())

		want := Fragment{
			"wf_nightly": Fragment{
				"s_load": Fragment{
					"m_load": Fragment{
						"EXP_Clean": Fragment{"Out": FieldRef{ID: 1}},
					},
				},
			},
		}
		assert.Equal(t, want, got)
	})

	t.Run("unknown_mapping_skips_session", func(t *testing.T) {
		reg := NewRegistry()
		wf := element("WORKFLOW",
			map[string]string{"NAME": "wf_nightly"},
			element("SESSION", map[string]string{"NAME": "s_orphan", "MAPPINGNAME": "m_gone"}),
			element("SESSION", map[string]string{"NAME": "s_load", "MAPPINGNAME": "m_load"}),
		)

		got := buildWorkflowFragment(wf, []*xmltree.Element{mapping}, reg, discardLogger())

		sessions := got["wf_nightly"].(Fragment)
		require.Len(t, sessions, 1)
		assert.NotContains(t, sessions, "s_orphan")
		assert.Contains(t, sessions, "s_load")
	})

	t.Run("rebuilding_mapping_reuses_identities", func(t *testing.T) {
		reg := NewRegistry()
		_, _ = buildMappingFragment(mapping, reg)
		before := reg.Len()

		wf := element("WORKFLOW",
			map[string]string{"NAME": "wf"},
			element("SESSION", map[string]string{"NAME": "s1", "MAPPINGNAME": "m_load"}),
		)
		_ = buildWorkflowFragment(wf, []*xmltree.Element{mapping}, reg, discardLogger())

		assert.Equal(t, before, reg.Len())
	})
}
