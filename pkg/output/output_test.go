package output

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteStdout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write("-", []byte("workDir = \"s3://w\""), WriteOptions{Stdout: &buf}))
	assert.Equal(t, "workDir = \"s3://w\"\n", buf.String())

	buf.Reset()
	require.NoError(t, Write("-", []byte("already\n"), WriteOptions{Stdout: &buf}))
	assert.Equal(t, "already\n", buf.String())
}

func TestWriteFileCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "nextflow.config")
	require.NoError(t, Write(path, []byte("a = 1"), WriteOptions{}))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a = 1\n", string(b))
}

func TestWriteFileOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobdef.json")
	require.NoError(t, os.WriteFile(path, []byte("old content that is longer\n"), 0644))
	require.NoError(t, Write(path, []byte("{}"), WriteOptions{}))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(b))
}

func TestShortError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"plain", errors.New("no job definitions found"), "no job definitions found"},
		{
			"sdk error",
			errors.New("failed to list CloudFormation exports: operation error CloudFormation: ListExports, https response error StatusCode: 403, RequestID: 1234, api error AccessDenied: User is not authorized"),
			"AccessDenied: User is not authorized",
		},
		{"multi-line", errors.New("first line\nsecond line"), "first line"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShortError(tt.err))
		})
	}
}

func TestConsoleWithoutColor(t *testing.T) {
	InitConsole(true)
	assert.Equal(t, "→ jobdef\n  head job\n", SectionHeader("jobdef", "head job"))
	assert.Equal(t, "→ jobdef\n", SectionHeader("jobdef", " "))
	assert.Equal(t, "Warning: 2 matches", Warnf("%d matches", 2))
	assert.Equal(t, "fetched 3", Notef("fetched %d", 3))
	assert.Equal(t, "done", Successf("done"))
}
