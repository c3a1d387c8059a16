package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMerge(t *testing.T) {
	t.Run("preserves_disjoint_branches", func(t *testing.T) {
		dst := Fragment{"a": Fragment{"b": 1}}
		src := Fragment{"a": Fragment{"c": 2}, "d": 3}

		got := Merge(dst, src)

		want := Fragment{"a": Fragment{"b": 1, "c": 2}, "d": 3}
		assert.Equal(t, want, got)
	})

	t.Run("mutates_and_returns_accumulator", func(t *testing.T) {
		dst := Fragment{}
		got := Merge(dst, Fragment{"x": 1})
		assert.Equal(t, Fragment{"x": 1}, dst)
		assert.Equal(t, Fragment{"x": 1}, got)
	})

	t.Run("scalar_replaces_subtree", func(t *testing.T) {
		dst := Fragment{"a": Fragment{"deep": Fragment{"leaf": FieldRef{ID: 1}}}}
		got := Merge(dst, Fragment{"a": 42})
		assert.Equal(t, Fragment{"a": 42}, got)
	})

	t.Run("subtree_replaces_scalar", func(t *testing.T) {
		dst := Fragment{"a": 42}
		got := Merge(dst, Fragment{"a": Fragment{"b": 1}})
		assert.Equal(t, Fragment{"a": Fragment{"b": 1}}, got)
	})

	t.Run("rhs_wins_on_leaf_collision", func(t *testing.T) {
		dst := Fragment{"t": Fragment{"col": FieldRef{ID: 1}}}
		got := Merge(dst, Fragment{"t": Fragment{"col": FieldRef{ID: 9}}})
		assert.Equal(t, Fragment{"t": Fragment{"col": FieldRef{ID: 9}}}, got)
	})

	t.Run("idempotent_for_identity_keyed_leaves", func(t *testing.T) {
		addition := Fragment{"db": Fragment{"dbo": Fragment{"t": Fragment{"c": FieldRef{ID: 7}}}}}

		once := Merge(Fragment{}, addition)
		twice := Merge(Merge(Fragment{}, addition), addition)
		assert.Equal(t, once, twice)
	})
}
