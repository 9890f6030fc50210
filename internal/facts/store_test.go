package facts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFacts = `{
  "files": {
    "b.py": {
      "statements": [1, 2, 3],
      "executed_lines": [1, 2, 3]
    },
    "a.py": {
      "statements": [1, 2, 3, 4, 5, 7, 8, 9],
      "excluded": [],
      "executed_lines": [1, 2, 4, 5, 8],
      "possible_arcs": [[2, 3], [2, 4], [4, 5], [4, 7], [8, 9], [8, -1]],
      "executed_arcs": [[2, 4], [4, 5], [8, -1]],
      "contexts": {"1": ["cool_test"], "2": ["cool_test"]},
      "regions": [
        {"kind": "function", "name": "c", "lines": [4, 5]},
        {"kind": "class", "name": "D", "lines": [7, 8, 9]}
      ]
    }
  }
}`

func TestStoreParse(t *testing.T) {
	store, err := Parse([]byte(sampleFacts))
	require.NoError(t, err)

	t.Run("should list files in ascending order", func(t *testing.T) {
		assert.Equal(t, []string{"a.py", "b.py"}, store.Files())
	})

	t.Run("should decode line sets and arcs", func(t *testing.T) {
		ff, err := store.Query("a.py")
		require.NoError(t, err)
		assert.Equal(t, 8, ff.Statements.Len())
		assert.Equal(t, []int{1, 2, 4, 5, 8}, ff.Executed.Sorted())
		assert.Len(t, ff.PossibleArcs, 6)
		assert.Len(t, ff.ExecutedArcs, 3)
	})

	t.Run("should decode contexts with integer line keys", func(t *testing.T) {
		ff, err := store.Query("a.py")
		require.NoError(t, err)
		assert.Equal(t, []string{"cool_test"}, ff.Contexts[1])
		assert.Equal(t, []string{"cool_test"}, ff.Contexts[2])
	})

	t.Run("should decode regions with typed kinds", func(t *testing.T) {
		ff, err := store.Query("a.py")
		require.NoError(t, err)
		require.Len(t, ff.Regions, 2)
		assert.Equal(t, FunctionRegion, ff.Regions[0].Kind)
		assert.Equal(t, "c", ff.Regions[0].Name)
		assert.Equal(t, ClassRegion, ff.Regions[1].Kind)
		assert.Equal(t, []int{7, 8, 9}, ff.Regions[1].Lines.Sorted())
	})

	t.Run("should error for unknown files", func(t *testing.T) {
		_, err := store.Query("nope.py")
		assert.Error(t, err)
	})
}

func TestStorePerFileErrors(t *testing.T) {
	doc := `{
	  "files": {
	    "good.py": {"statements": [1], "executed_lines": [1]},
	    "bad_kind.py": {"statements": [1], "regions": [{"kind": "package", "name": "x", "lines": [1]}]},
	    "bad_context.py": {"statements": [1], "contexts": {"not-a-line": ["t"]}},
	    "bad_shape.py": {"statements": "oops"}
	  }
	}`
	store, err := Parse([]byte(doc))
	require.NoError(t, err)

	t.Run("should keep every path visible", func(t *testing.T) {
		assert.Equal(t, []string{"bad_context.py", "bad_kind.py", "bad_shape.py", "good.py"}, store.Files())
	})

	t.Run("should still serve the good file", func(t *testing.T) {
		ff, err := store.Query("good.py")
		require.NoError(t, err)
		assert.Equal(t, 1, ff.Statements.Len())
	})

	t.Run("should surface per-file decode errors", func(t *testing.T) {
		for _, path := range []string{"bad_kind.py", "bad_context.py", "bad_shape.py"} {
			_, err := store.Query(path)
			assert.Error(t, err, path)
		}
	})
}

func TestStoreLoad(t *testing.T) {
	t.Run("should load a facts file from disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "facts.json")
		require.NoError(t, os.WriteFile(path, []byte(sampleFacts), 0644))

		store, err := Load(path)
		require.NoError(t, err)
		assert.Len(t, store.Files(), 2)
	})

	t.Run("should fail for a missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
		assert.Error(t, err)
	})

	t.Run("should fail for an invalid document", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "facts.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
		_, err := Load(path)
		assert.Error(t, err)
	})
}
