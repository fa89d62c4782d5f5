package repl

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tstbuild/internal/catalog"
	"tstbuild/internal/color"
	"tstbuild/internal/testfile"
)

type memFS struct {
	files map[string]string
}

func (m *memFS) OpenFile(path string) ([]byte, error) {
	text, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", testfile.ErrNotFound, path)
	}
	return []byte(text), nil
}

func (m *memFS) SaveFile(path, text string) error {
	m.files[path] = text
	return nil
}

func newTestREPL(t *testing.T, answers string) (*REPL, *bytes.Buffer, *memFS) {
	t.Helper()
	color.SetEnabled(false)
	t.Cleanup(func() { color.SetEnabled(true) })

	cat, err := catalog.Parse([]byte(`[
		{"command": 225, "name": "SET_HOST_PREFIX", "args": ["host_slot:u1", "prefix:s8"]},
		{"command": 232, "name": "READ_DIR", "args": ["maxlen:u1"], "reply": ["data:s256"]}
	]`))
	require.NoError(t, err)

	var out bytes.Buffer
	fs := &memFS{files: map[string]string{}}
	r := New(cat, fs, Options{Out: &out, In: strings.NewReader(answers)})
	return r, &out, fs
}

func run(t *testing.T, r *REPL, lines ...string) {
	t.Helper()
	for _, line := range lines {
		require.NoError(t, r.executeCommand(line), line)
	}
}

func TestEditingFlow(t *testing.T) {
	r, out, _ := newTestREPL(t, "")

	run(t, r,
		"add set_host_prefix",
		"set host_slot 3",
		"set prefix SD",
		"device apetime",
		"preview",
	)

	cur := r.Session().Current()
	require.NotNil(t, cur)
	assert.Equal(t, map[string]string{"host_slot": "3", "prefix": "SD"}, cur.ArgValues)
	assert.Contains(t, out.String(), "SET_HOST_PREFIX (225)")
	assert.Contains(t, out.String(), `"host_slot": 3,`)
	assert.Contains(t, out.String(), `"prefix": "SD"`)
	assert.Contains(t, out.String(), `"device": "apetime"`)
	assert.Empty(t, r.staged)
}

func TestSetKeepsSpacesInValue(t *testing.T) {
	r, _, _ := newTestREPL(t, "")
	run(t, r, "add set_host_prefix", "set prefix  A  B")
	assert.Equal(t, "A  B", r.Session().Current().ArgValues["prefix"])
}

func TestSetErrors(t *testing.T) {
	r, _, _ := newTestREPL(t, "")

	assert.Error(t, r.executeCommand("set prefix SD"), "no test selected")

	run(t, r, "add mystery")
	err := r.executeCommand("set prefix SD")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no definition")

	run(t, r, "cmd set_host_prefix")
	err = r.executeCommand("set nosuch 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no field 'nosuch'")
}

func TestFieldValueFallsBackToEntry(t *testing.T) {
	r, _, _ := newTestREPL(t, "")
	assert.Empty(t, r.FieldValue("host_slot"))

	run(t, r, "add set_host_prefix", "set host_slot 3")
	assert.Equal(t, "3", r.FieldValue("host_slot"))

	r.staged["host_slot"] = "7"
	assert.Equal(t, "7", r.FieldValue("host_slot"))
}

func TestListAndSelect(t *testing.T) {
	r, out, _ := newTestREPL(t, "")
	run(t, r, "list")
	assert.Contains(t, out.String(), "No tests.")

	run(t, r, "add read_dir", "add set_host_prefix", "device apetime", "select 1")
	out.Reset()
	run(t, r, "list")

	assert.Contains(t, out.String(), ">   1  READ_DIR")
	assert.Contains(t, out.String(), "    2  [apetime] SET_HOST_PREFIX")
	assert.Contains(t, out.String(), "2 test(s), unsaved changes")

	assert.Error(t, r.executeCommand("select 5"))
	assert.Error(t, r.executeCommand("select x"))
}

func TestReorderAndRemove(t *testing.T) {
	r, _, _ := newTestREPL(t, "")
	run(t, r, "add read_dir", "add set_host_prefix", "up")

	entries := r.Session().Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "set_host_prefix", entries[0].Command)

	run(t, r, "down", "dup", "rm")
	assert.Len(t, r.Session().Entries(), 2)
	assert.Equal(t, 1, r.Session().CurrentIndex())
}

func TestReplyAndFlags(t *testing.T) {
	r, _, _ := newTestREPL(t, "")
	run(t, r, "add read_dir")
	cur := r.Session().Current()
	require.NotNil(t, cur.ReplyLength)
	assert.Equal(t, 256, *cur.ReplyLength)

	run(t, r, "reply 5", "expected ##  ##")
	assert.Equal(t, 5, *cur.ReplyLength)
	assert.Equal(t, "##  ##", cur.Expected)

	run(t, r, "reply off")
	assert.Nil(t, cur.ReplyLength)
	assert.Empty(t, cur.Expected)
	assert.Error(t, r.executeCommand("reply -1"))
	assert.Error(t, r.executeCommand("reply"))

	run(t, r, "warnonly on", "errexpected TRUE")
	require.NotNil(t, cur.WarnOnly)
	require.NotNil(t, cur.ErrorExpected)
	run(t, r, "warnonly off")
	assert.Nil(t, cur.WarnOnly)
	assert.Error(t, r.executeCommand("warnonly maybe"))
}

func TestShow(t *testing.T) {
	r, out, _ := newTestREPL(t, "")
	assert.Error(t, r.executeCommand("show"))

	run(t, r, "add set_host_prefix", "set host_slot 3", "show")
	assert.Contains(t, out.String(), "Test #1")
	assert.Contains(t, out.String(), "command      SET_HOST_PREFIX (225)")
	assert.Contains(t, out.String(), "host_slot    3 uint8")
	assert.Contains(t, out.String(), "prefix       (not set) string[8]")
}

func TestValidate(t *testing.T) {
	r, out, _ := newTestREPL(t, "")
	run(t, r, "add set_host_prefix", "set host_slot abc", "validate")
	assert.Contains(t, out.String(), "✗ This test, arg 'host_slot': Expected an unsigned integer, got 'abc'.")
	assert.Contains(t, out.String(), "arg 'prefix': Value is required.")
	assert.Contains(t, out.String(), "error(s)")

	out.Reset()
	run(t, r, "set host_slot 1", "set prefix SD", "validate all")
	assert.Contains(t, out.String(), "No problems found.")
}

func TestSaveConfirmsWarnings(t *testing.T) {
	t.Run("long filename rejected", func(t *testing.T) {
		r, out, fs := newTestREPL(t, "y\n")
		run(t, r, "add mystery")
		err := r.executeCommand("save /tmp/out/longfilename.tst")
		require.Error(t, err)
		assert.Empty(t, fs.files)
		assert.Contains(t, out.String(), "Filename 'longfilename' is 12 characters long. Maximum is 8.")
	})

	t.Run("declined", func(t *testing.T) {
		r, out, fs := newTestREPL(t, "n\n")
		run(t, r, "add mystery", "save /tmp/out/tests.tst")
		assert.Empty(t, fs.files)
		assert.Contains(t, out.String(), "Do you want to save anyway?")
		assert.Contains(t, out.String(), "Cancelled.")
	})

	t.Run("accepted", func(t *testing.T) {
		r, out, fs := newTestREPL(t, "y\n")
		run(t, r, "add mystery", "save /tmp/out/tests.json")
		assert.Equal(t, "[\n  {\n    \"command\": \"mystery\"\n  }\n]", fs.files["/tmp/out/tests.tst"])
		assert.Contains(t, out.String(), "Saved to: /tmp/out/tests.tst")
	})

	t.Run("no path", func(t *testing.T) {
		r, _, _ := newTestREPL(t, "")
		run(t, r, "add set_host_prefix", "set host_slot 1", "set prefix SD")
		err := r.executeCommand("save")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "save <path>")
	})

	t.Run("errors block", func(t *testing.T) {
		r, out, fs := newTestREPL(t, "")
		run(t, r, "add")
		err := r.executeCommand("saveas /tmp/out/a.tst")
		require.Error(t, err)
		assert.Empty(t, fs.files)
		assert.Contains(t, out.String(), "Command must be selected.")
	})
}

func TestOpenAndNew(t *testing.T) {
	r, out, fs := newTestREPL(t, "y\n")
	fs.files["/t/a.tst"] = `[{"command": "read_dir", "maxlen": 8, "replyLength": 16}]`

	run(t, r, "add", "open /t/a.tst")
	assert.Contains(t, out.String(), "You have unsaved changes. Discard them?")
	assert.Contains(t, out.String(), "Opened /t/a.tst (1 tests)")
	assert.Equal(t, "8", r.Session().Current().ArgValues["maxlen"])

	run(t, r, "new")
	assert.Equal(t, 0, r.Session().Len())

	assert.Error(t, r.executeCommand("open /t/missing.tst"))
}

func TestExit(t *testing.T) {
	r, _, _ := newTestREPL(t, "n\n")
	assert.ErrorIs(t, r.executeCommand("exit"), errExit)

	run(t, r, "add")
	assert.NoError(t, r.executeCommand("quit"), "declined quit keeps the editor open")
}

func TestPatternAndUnknown(t *testing.T) {
	r, out, _ := newTestREPL(t, "")
	run(t, r, "pattern ##:## 12:34")
	assert.Contains(t, out.String(), "match")

	out.Reset()
	run(t, r, "pattern ##:## ab:cd")
	assert.Contains(t, out.String(), "no match")

	assert.Error(t, r.executeCommand("pattern only-one"))
	err := r.executeCommand("frobnicate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command: frobnicate")
}

func TestRestAfter(t *testing.T) {
	tests := []struct {
		input string
		n     int
		want  string
	}{
		{"set prefix SD", 2, "SD"},
		{"set  prefix   A B ", 2, "A B"},
		{"set prefix", 2, ""},
		{"expected ##:##", 1, "##:##"},
		{"expected", 1, ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, restAfter(tt.input, tt.n))
		})
	}
}

func TestCompleterOffersCatalogKeys(t *testing.T) {
	r, _, _ := newTestREPL(t, "")
	line := []rune("cmd re")
	candidates, _ := r.createCompleter().Do(line, len(line))
	require.Len(t, candidates, 1)
	assert.Contains(t, string(candidates[0]), "ad_dir")
}
