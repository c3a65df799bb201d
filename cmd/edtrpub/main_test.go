package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("EDTR_CONFIG", "")
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRoot_MissingArgument(t *testing.T) {
	stdout, stderr, err := execute(t)
	require.Error(t, err)
	assert.Contains(t, stderr, "accepts 1 arg(s)")
	assert.Contains(t, stdout+stderr, "Usage:")
}

func TestRoot_MissingArchive(t *testing.T) {
	stdout, stderr, err := execute(t, filepath.Join(t.TempDir(), "Bizottsag_2020_10_15.zip"))
	require.Error(t, err)
	assert.Contains(t, stderr, "failed at validate")
	assert.NotContains(t, stdout+stderr, "Usage:")
}

func TestRoot_ProcessesPackage(t *testing.T) {
	fixture, err := os.ReadFile(filepath.Join("..", "..", "internal", "pipeline", "testdata", "meghivo.htm"))
	require.NoError(t, err)

	dir := t.TempDir()
	pkg := filepath.Join(dir, "Bizottsag_2020_10_15.zip")
	f, err := os.Create(pkg)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, body := range map[string][]byte{
		"Bizottsag_2020-10-15/meghivo.htm":                  fixture,
		"Bizottsag_2020-10-15/3_napirendi_pont/jegyzet.txt": []byte("egy\n"),
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(body)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	stdout, _, err := execute(t, pkg)
	require.NoError(t, err)
	assert.Contains(t, stdout, filepath.Join(dir, "Bizottsag_2020-10-15"))
	assert.Contains(t, stdout, "Agenda items:          3 (closed 1, linked 1, skipped 1)")
	assert.Contains(t, stdout, "Links inserted:        1")

	out, _, err := execute(t, "inventory", filepath.Join(dir, "Bizottsag_2020-10-15"))
	require.NoError(t, err)
	assert.Contains(t, out, "| jegyzet.txt | 4 B | 1 lines |")

	out, _, err = execute(t, "inventory", "--format", "html", filepath.Join(dir, "Bizottsag_2020-10-15"))
	require.NoError(t, err)
	assert.Contains(t, out, "<h2>3_napirendi_pont</h2>")
}

func TestInventory_UnknownFormat(t *testing.T) {
	_, _, err := execute(t, "inventory", "--format", "pdf", t.TempDir())
	assert.Error(t, err)
}
