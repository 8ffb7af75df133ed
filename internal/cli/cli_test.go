package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyp3rd/complog/internal/output"
)

func newTestFactory() (*Factory, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	return &Factory{Out: out, ErrOut: errOut, Version: "test"}, out, errOut
}

func writeComponentLog(t *testing.T, dir, component string, records ...string) {
	t.Helper()

	sink, err := output.NewLineFile(output.LineFileConfig{
		Path:     filepath.Join(dir, component+".log"),
		MaxLines: 100,
	})
	require.NoError(t, err)

	for _, record := range records {
		require.NoError(t, sink.Append(record))
	}

	require.NoError(t, sink.Close())
}

func execute(t *testing.T, f *Factory, args ...string) error {
	t.Helper()

	cmd := NewCmdRoot(f)
	cmd.SetArgs(args)

	return cmd.Execute()
}

func TestListCommand(t *testing.T) {
	dir := t.TempDir()
	writeComponentLog(t, dir, "Net", "one", "two")
	writeComponentLog(t, dir, "DB", "multi\nline")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))

	f, out, _ := newTestFactory()

	require.NoError(t, execute(t, f, "list", "--dir", dir))

	assert.Equal(t, "COMPONENT  RECORDS\nDB         1\nNet        2\n", out.String())
}

func TestListCommandQuiet(t *testing.T) {
	dir := t.TempDir()
	writeComponentLog(t, dir, "Net", "one")

	f, out, _ := newTestFactory()

	require.NoError(t, execute(t, f, "ls", "-q", "--dir", dir))

	assert.Equal(t, "Net\n", out.String())
}

func TestListCommandMissingDir(t *testing.T) {
	f, out, _ := newTestFactory()

	require.NoError(t, execute(t, f, "list", "--dir", filepath.Join(t.TempDir(), "absent")))

	assert.Empty(t, out.String())
}

func TestTailCommand(t *testing.T) {
	dir := t.TempDir()
	writeComponentLog(t, dir, "Net", "one", "two", "three\n  at frame")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "default count", args: []string{"tail", "Net"}, want: "one\ntwo\nthree\n  at frame\n"},
		{name: "last two", args: []string{"tail", "Net", "-n", "2"}, want: "two\nthree\n  at frame\n"},
		{name: "all", args: []string{"tail", "Net", "-n", "0"}, want: "one\ntwo\nthree\n  at frame\n"},
		{name: "unknown component", args: []string{"tail", "Sync"}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, out, _ := newTestFactory()

			require.NoError(t, execute(t, f, append(tt.args, "--dir", dir)...))
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestTailCommandRequiresComponent(t *testing.T) {
	f, _, _ := newTestFactory()

	require.Error(t, execute(t, f, "tail", "--dir", t.TempDir()))
}

func TestClearCommand(t *testing.T) {
	dir := t.TempDir()
	writeComponentLog(t, dir, "Net", "one", "two")
	writeComponentLog(t, dir, "DB", "kept")

	f, _, errOut := newTestFactory()

	require.NoError(t, execute(t, f, "clear", "Net", "--dir", dir))
	assert.Equal(t, "cleared Net\n", errOut.String())

	records, err := output.ReadRecords(filepath.Join(dir, "Net.log"))
	require.NoError(t, err)
	assert.Empty(t, records)

	records, err = output.ReadRecords(filepath.Join(dir, "DB.log"))
	require.NoError(t, err)
	assert.Equal(t, []string{"kept"}, records)
}

func TestClearCommandUnknownComponent(t *testing.T) {
	f, _, _ := newTestFactory()

	dir := t.TempDir()

	require.Error(t, execute(t, f, "clear", "Sync", "--dir", dir))

	f.Dir = dir
	require.ErrorIs(t, clearComponent(f, "Sync"), ErrNoComponentLog)

	_, err := os.Stat(filepath.Join(dir, "Sync.log"))
	assert.True(t, os.IsNotExist(err))
}

func TestCommandsUseRunOverride(t *testing.T) {
	f, _, _ := newTestFactory()

	var got *TailOptions

	cmd := NewCmdTail(f, func(_ context.Context, opts *TailOptions) error {
		got = opts

		return nil
	})
	cmd.SetArgs([]string{"Net", "-n", "5"})

	require.NoError(t, cmd.Execute())
	require.NotNil(t, got)
	assert.Equal(t, "Net", got.Component)
	assert.Equal(t, 5, got.Records)
}

func TestFactoryLogDir(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("file:\n  dir: /var/log/app\n"), 0o600))

	f, _, _ := newTestFactory()
	f.ConfigPath = configPath

	dir, err := f.LogDir()
	require.NoError(t, err)
	assert.Equal(t, "/var/log/app", dir)

	f.Dir = "/override"

	dir, err = f.LogDir()
	require.NoError(t, err)
	assert.Equal(t, "/override", dir)

	t.Setenv("COMPLOG_FILE_DIR", "/from/env")

	dir, err = (&Factory{}).LogDir()
	require.NoError(t, err)
	assert.Equal(t, "/from/env", dir)
}
