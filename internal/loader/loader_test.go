package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDirReadsJSONAndYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"), []byte(`{
		"request": {"path": {"equals": "/a"}},
		"response": {"status": 200}
	}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yaml"), []byte("request:\n  path:\n    equals: /b\nresponse:\n  status: 201\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignore.txt"), []byte("not a mock"), 0o644))

	defs, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, defs, 2)

	paths := map[string]int{}
	for _, d := range defs {
		paths[d.Request.Path.Equals] = d.Response.Status
	}
	assert.Equal(t, 200, paths["/a"])
	assert.Equal(t, 201, paths["/b"])
}

func TestLoadDirEmptyDirectory(t *testing.T) {
	defs, err := LoadDir(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, defs)
}
