package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tstbuild/internal/catalog"
	"tstbuild/internal/cli"
)

const testCatalogJSON = `[
	{"command": 225, "name": "SET_HOST_PREFIX", "args": ["host_slot:u1", "prefix:s8"]},
	{"command": 232, "name": "READ_DIR", "args": ["maxlen:u1"], "reply": ["data:s256"]}
]`

// writeFixtures creates a catalog and returns its path and the directory.
func writeFixtures(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, catalog.DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(testCatalogJSON), 0644))
	return path, dir
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// executeRoot runs the root command with fresh global flags.
func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	catalogPath, logLevel, outputFormat, noColor = "", "", "", false
	validateStrict, previewWrite, previewForce = false, false, false

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(append([]string{"--no-color", "--log-level", "error"}, args...))
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestCommandsCommand(t *testing.T) {
	catalogFile, _ := writeFixtures(t)

	out, err := executeRoot(t, "--catalog", catalogFile, "commands", "-o", "json")
	require.NoError(t, err)

	var views []cli.CommandView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 2)
	assert.Equal(t, "READ_DIR", views[0].Name)
}

func TestMissingCatalog(t *testing.T) {
	_, err := executeRoot(t, "--catalog", filepath.Join(t.TempDir(), "nope.jsn"), "commands")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestDescribeCommand(t *testing.T) {
	catalogFile, _ := writeFixtures(t)

	out, err := executeRoot(t, "--catalog", catalogFile, "describe", "read_dir")
	require.NoError(t, err)
	assert.Contains(t, out, "READ_DIR (232)")
	assert.Contains(t, out, "Reply: string[256] (size 256)")

	_, err = executeRoot(t, "--catalog", catalogFile, "describe", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestParseCommand(t *testing.T) {
	out, err := executeRoot(t, "parse", "slot:i2", "-o", "json")
	require.NoError(t, err)

	var views []cli.DescriptorView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "slot", views[0].Name)
	assert.Equal(t, "int16", views[0].Type)
}

func TestValidateCommand(t *testing.T) {
	catalogFile, dir := writeFixtures(t)
	good := writeTestFile(t, dir, "good.tst", `[{"command": "set_host_prefix", "host_slot": 1, "prefix": "SD"}]`)
	warn := writeTestFile(t, dir, "warn.tst", `[{"command": "read_dir", "maxlen": 8}]`)
	bad := writeTestFile(t, dir, "bad.tst", `[{"command": "set_host_prefix", "host_slot": "x"}]`)

	out, err := executeRoot(t, "--catalog", catalogFile, "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "No problems found.")

	out, err = executeRoot(t, "--catalog", catalogFile, "validate", warn)
	require.NoError(t, err)
	assert.Contains(t, out, "replyLength is not set")

	_, err = executeRoot(t, "--catalog", catalogFile, "validate", "--strict", warn)
	assert.Error(t, err)

	out, err = executeRoot(t, "--catalog", catalogFile, "validate", good, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2")
	assert.Contains(t, out, "Expected an unsigned integer, got 'x'.")
	assert.Contains(t, out, "Value is required.")
}

func TestPreviewCommand(t *testing.T) {
	catalogFile, dir := writeFixtures(t)
	path := writeTestFile(t, dir, "p.tst", `[{"prefix": "SD", "command": "set_host_prefix", "host_slot": "3"}]`)
	expected := "[\n  {\n    \"command\": \"set_host_prefix\",\n    \"host_slot\": 3,\n    \"prefix\": \"SD\"\n  }\n]"

	out, err := executeRoot(t, "--catalog", catalogFile, "preview", path)
	require.NoError(t, err)
	assert.Equal(t, expected+"\n", out)

	_, err = executeRoot(t, "--catalog", catalogFile, "preview", "--write", path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, expected, string(data))
}

func TestValidateContinuesAfterLoadError(t *testing.T) {
	catalogFile, dir := writeFixtures(t)
	broken := writeTestFile(t, dir, "broken.tst", `{"command": "read_dir"}`)
	missing := filepath.Join(dir, "missing.tst")
	good := writeTestFile(t, dir, "good.tst", `[{"command": "set_host_prefix", "host_slot": 1, "prefix": "SD"}]`)

	out, err := executeRoot(t, "--catalog", catalogFile, "validate", broken, missing, good)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 3")
	assert.Contains(t, out, broken)
	assert.Contains(t, out, missing)
	assert.Contains(t, out, "No problems found.")
}

func TestPreviewWriteRefusesInvalidFile(t *testing.T) {
	catalogFile, dir := writeFixtures(t)
	content := `[{"command": "local_only", "slot": 4, "mode": "rw"}, {"command": "set_host_prefix"}]`
	path := writeTestFile(t, dir, "bad.tst", content)

	out, err := executeRoot(t, "--catalog", catalogFile, "preview", "--write", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation error(s)")
	assert.Contains(t, out, "Value is required.")

	_, err = executeRoot(t, "--catalog", catalogFile, "preview", "--write", "--force", path)
	require.Error(t, err, "errors are not overridable")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestPreviewWriteNeedsForceForWarnings(t *testing.T) {
	catalogFile, dir := writeFixtures(t)
	content := `[{"command": "read_dir", "maxlen": 8}]`
	path := writeTestFile(t, dir, "warn.tst", content)

	out, err := executeRoot(t, "--catalog", catalogFile, "preview", "--write", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")
	assert.Contains(t, out, "replyLength is not set")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))

	_, err = executeRoot(t, "--catalog", catalogFile, "preview", "--write", "--force", path)
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"command\": \"read_dir\",\n    \"maxlen\": 8\n  }\n]", string(data))
}

func TestNormalizeCommand(t *testing.T) {
	out, err := executeRoot(t, "normalize", filepath.Join("out", "averylongname.json"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("out", "averylon.tst")+"\n", out)

	_, err = executeRoot(t, "normalize", "a*b.tst")
	assert.Error(t, err)
}

func TestPatternCommand(t *testing.T) {
	out, err := executeRoot(t, "pattern")
	require.NoError(t, err)
	assert.Contains(t, out, "#  = a single digit (0-9)")

	out, err = executeRoot(t, "pattern", "##:##", "12:34")
	require.NoError(t, err)
	assert.Contains(t, out, "match")

	_, err = executeRoot(t, "pattern", "##", "ab")
	assert.Error(t, err)

	_, err = executeRoot(t, "pattern", "##")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	SetVersion("1.2.3")
	out, err := executeRoot(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "tstbuild version 1.2.3\n", out)
}
