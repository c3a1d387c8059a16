package extract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infacat/internal/xmltree"
)

const exportDoc = `<POWERMART>
  <REPOSITORY NAME="repo">
    <FOLDER NAME="demo">
      <SOURCE DBDNAME="TestDB" OWNERNAME="dbo" NAME="TestTable">
        <SOURCEFIELD NAME="TestCol"/>
        <SOURCEFIELD NAME="TestCol2"/>
      </SOURCE>
      <MAPPING NAME="m_test">
        <TRANSFORMATION NAME="SQ_Test">
          <TRANSFORMFIELD NAME="TestCol"/>
        </TRANSFORMATION>
        <INSTANCE NAME="TestTable" TRANSFORMATION_TYPE="Source Definition" TYPE="SOURCE"/>
        <INSTANCE NAME="SQ_Test" TRANSFORMATION_TYPE="Source Qualifier" TYPE="TRANSFORMATION"/>
        <CONNECTOR FROMINSTANCE="TestTable" FROMFIELD="TestCol" TOINSTANCE="SQ_Test" TOFIELD="TestCol"/>
        <CONNECTOR FROMINSTANCE="SQ_Test" FROMFIELD="TestCol" TOINSTANCE="TargetTable" TOFIELD="TargetCol"/>
      </MAPPING>
      <WORKFLOW NAME="wf_test">
        <SESSION NAME="s_test" MAPPINGNAME="m_test"/>
        <SESSION NAME="s_orphan" MAPPINGNAME="m_missing"/>
      </WORKFLOW>
    </FOLDER>
  </REPOSITORY>
</POWERMART>`

func parseDoc(t *testing.T, doc string) *xmltree.Element {
	t.Helper()
	root, err := xmltree.Parse(strings.NewReader(doc))
	require.NoError(t, err)
	return root
}

func TestExtractor_Extract(t *testing.T) {
	result := New(discardLogger()).Extract(parseDoc(t, exportDoc))

	t.Run("repository_name", func(t *testing.T) {
		assert.Equal(t, "repo", result.RepositoryName)
	})

	t.Run("db_objects", func(t *testing.T) {
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
		assert.Equal(t, want, result.DBObjects)
	})

	t.Run("informatica_objects", func(t *testing.T) {
		repo, ok := result.InformaticaObjects["repo"].(Fragment)
		require.True(t, ok)

		mapping, ok := repo["m_test"].(Fragment)
		require.True(t, ok)
		assert.Equal(t, Fragment{"SQ_Test": Fragment{"TestCol": FieldRef{ID: 3}}}, mapping)

		// Workflow session nests the same mapping fragment with the same ids.
		workflow, ok := repo["wf_test"].(Fragment)
		require.True(t, ok)
		session, ok := workflow["s_test"].(Fragment)
		require.True(t, ok)
		assert.Equal(t, Fragment{"m_test": Fragment{"SQ_Test": Fragment{"TestCol": FieldRef{ID: 3}}}}, session)

		// Session referencing a missing mapping is skipped.
		assert.NotContains(t, workflow, "s_orphan")
	})

	t.Run("lineage_drops_unresolved_target", func(t *testing.T) {
		assert.Equal(t, []Edge{{1, 3}}, result.Lineage)
	})
}

func TestExtractor_Extract_NoRepository(t *testing.T) {
	doc := `<POWERMART>
  <FOLDER NAME="f">
    <MAPPING NAME="m">
      <TRANSFORMATION NAME="T">
        <TRANSFORMFIELD NAME="c"/>
      </TRANSFORMATION>
    </MAPPING>
  </FOLDER>
</POWERMART>`

	result := New(discardLogger()).Extract(parseDoc(t, doc))

	assert.Equal(t, "N/A", result.RepositoryName)
	assert.Contains(t, result.InformaticaObjects, "N/A")
}

func TestExtractor_Extract_MappingsMergeUnderRepository(t *testing.T) {
	doc := `<POWERMART>
  <REPOSITORY NAME="repo">
    <MAPPING NAME="m_one">
      <TRANSFORMATION NAME="A"><TRANSFORMFIELD NAME="x"/></TRANSFORMATION>
    </MAPPING>
    <MAPPING NAME="m_two">
      <TRANSFORMATION NAME="B"><TRANSFORMFIELD NAME="y"/></TRANSFORMATION>
    </MAPPING>
  </REPOSITORY>
</POWERMART>`

	result := New(discardLogger()).Extract(parseDoc(t, doc))

	repo := result.InformaticaObjects["repo"].(Fragment)
	assert.Contains(t, repo, "m_one")
	assert.Contains(t, repo, "m_two")
}

func TestExtractor_ExtractFile_Degradation(t *testing.T) {
	x := New(discardLogger())

	assertEmpty := func(t *testing.T, result *Result) {
		t.Helper()
		assert.Equal(t, "N/A", result.RepositoryName)
		assert.Empty(t, result.DBObjects)
		assert.Empty(t, result.InformaticaObjects)
		assert.Empty(t, result.Lineage)
		// Outputs are usable, not nil.
		require.NotNil(t, result.DBObjects)
		require.NotNil(t, result.Lineage)
	}

	t.Run("missing_file", func(t *testing.T) {
		assertEmpty(t, x.ExtractFile(filepath.Join(t.TempDir(), "absent.xml")))
	})

	t.Run("empty_file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.xml")
		require.NoError(t, os.WriteFile(path, nil, 0o600))
		assertEmpty(t, x.ExtractFile(path))
	})

	t.Run("malformed_file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.xml")
		require.NoError(t, os.WriteFile(path, []byte("<A><B></A>"), 0o600))
		assertEmpty(t, x.ExtractFile(path))
	})

	t.Run("valid_file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ok.xml")
		require.NoError(t, os.WriteFile(path, []byte(exportDoc), 0o600))
		result := x.ExtractFile(path)
		assert.Equal(t, "repo", result.RepositoryName)
		assert.NotEmpty(t, result.DBObjects)
	})
}
