package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestFind_DefaultScenarioJSON(t *testing.T) {
	out, err := execute(t, "find", "--json")
	require.NoError(t, err)

	var got findOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, got.Found)
	assert.Equal(t, 18, got.Cost)
	assert.Equal(t, [2]int{1, 0}, got.Path[0])
	assert.Equal(t, [2]int{9, 9}, got.Path[17])
}

func TestFind_Text(t *testing.T) {
	out, err := execute(t, "find")
	require.NoError(t, err)
	assert.Contains(t, out, "path (0,0) -> (9,9): 18 steps, 69 expanded")
}

func TestFind_ScenarioFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "walled.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
start: [0, 1]
goal: [2, 1]
map: |
  .#.
  .#.
  .#.
`), 0o644))

	out, err := execute(t, "find", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "no path from (0,1) to (2,1)")

	out, err = execute(t, "find", "--config", path, "--goal", "0,2", "--json")
	require.NoError(t, err)
	var got findOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, [][2]int{{0, 2}}, got.Path)
}

func TestFind_Errors(t *testing.T) {
	_, err := execute(t, "find", "--start", "nope")
	assert.Error(t, err)

	_, err = execute(t, "find", "--goal", "10,10")
	assert.Error(t, err)

	_, err = execute(t, "find", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = execute(t, "find", "--log-level", "loud")
	assert.Error(t, err)
}

func TestWalk(t *testing.T) {
	out, err := execute(t, "walk", "--tick", "1ms", "--start", "0,0", "--goal", "3,0")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, []string{"1/3 (1,0)", "2/3 (2,0)", "3/3 (3,0)"}, lines)
}

func TestBatch(t *testing.T) {
	out, err := execute(t, "batch", "-q", "0,0:9,9", "-q", "0,0:0,5", "-q", "0,0:20,0", "--workers", "2", "--json")
	require.NoError(t, err)

	var got []batchOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 3)
	assert.True(t, got[0].Found)
	assert.Equal(t, 18, got[0].Cost)
	assert.False(t, got[1].Found)
	assert.Empty(t, got[1].Error)
	assert.Contains(t, got[2].Error, "out of bounds")

	out, err = execute(t, "batch", "-q", "0,0:9,9")
	require.NoError(t, err)
	assert.Contains(t, out, "18 steps")

	_, err = execute(t, "batch", "-q", "0,0-9,9")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "gridpath version dev\n", out)
}

func TestParseCell(t *testing.T) {
	c, err := parseCell(" 3, 4 ")
	require.NoError(t, err)
	assert.Equal(t, 3, c.X)
	assert.Equal(t, 4, c.Y)

	for _, bad := range []string{"", "1", "1,2,3", "a,1", "1,b"} {
		_, err := parseCell(bad)
		assert.Error(t, err, bad)
	}
}
