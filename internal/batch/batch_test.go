package batch

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ruan-pysoft/mieliepit/internal/lang"
)

func writeTemp(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func newState() (*lang.State, error) {
	return lang.New()
}

func TestCheckAllPass(t *testing.T) {
	dir := t.TempDir()
	good := writeTemp(t, dir, "good.mp", "2 3 + print\n")

	report, err := Check(context.Background(), []string{good}, newState, nil)
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.False(t, report.Failed())
	assert.Equal(t, "5 ", report.Results[0].Output)
	assert.Empty(t, report.Results[0].Err)
}

func TestCheckReportsPerFileFailure(t *testing.T) {
	dir := t.TempDir()
	good := writeTemp(t, dir, "good.mp", "1 2 + print\n")
	bad := writeTemp(t, dir, "bad.mp", "bogus\n")

	report, err := Check(context.Background(), []string{good, bad}, newState, nil)
	require.NoError(t, err)
	require.Len(t, report.Results, 2)
	assert.True(t, report.Failed())

	assert.Equal(t, good, report.Results[0].Path)
	assert.Empty(t, report.Results[0].Err)

	assert.Equal(t, bad, report.Results[1].Path)
	assert.NotEmpty(t, report.Results[1].Err)
	assert.Contains(t, report.Results[1].Err, "undefined word")
}

func TestCheckMissingFileErrors(t *testing.T) {
	_, err := Check(context.Background(), []string{"/no/such/file.mp"}, newState, nil)
	assert.Error(t, err)
}

func TestCheckStopsOnExit(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "quits.mp", "1 print\nexit\n2 print\n")

	report, err := Check(context.Background(), []string{path}, newState, nil)
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.Equal(t, "1 ", report.Results[0].Output)
}

func TestCheckTeesLiveOutput(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "hello.mp", "4 5 + print\n")

	var tee bytes.Buffer
	report, err := Check(context.Background(), []string{path}, newState, &tee)
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.Equal(t, "9 ", report.Results[0].Output)
	assert.Contains(t, tee.String(), path)
	assert.Contains(t, tee.String(), "9 ")
}
