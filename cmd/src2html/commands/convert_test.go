package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/adamsoliev/src2html/internal/selector"
)

const cppSource = `#include <iostream>

template<typename T>
class Calculator {
public:
    T add(T a, T b) { return a + b; }
};

int main() {
    Calculator<int> calc;
    std::cout << calc.add(2, 3) << std::endl;
    return 0;
}
`

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()

	path := filepath.Join(root, rel)

	mkErr := os.MkdirAll(filepath.Dir(path), 0o755)
	require.NoError(t, mkErr)

	writeErr := os.WriteFile(path, []byte(content), 0o644)
	require.NoError(t, writeErr)

	return path
}

// runCommand executes the convert command with the given args and
// returns its status output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer

	cmd := buildConvertCommand(&buf)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return buf.String(), err
}

func requireWellFormed(t *testing.T, page string) {
	t.Helper()

	_, parseErr := html.Parse(strings.NewReader(page))
	require.NoError(t, parseErr)
}

func TestConvert_SingleFile(t *testing.T) {
	root := t.TempDir()
	source := writeFile(t, root, "test.cc", cppSource)

	_, err := runCommand(t, source, "--quiet")
	require.NoError(t, err)

	outputPath := filepath.Join(root, "test.html")
	page, readErr := os.ReadFile(outputPath)
	require.NoError(t, readErr)

	requireWellFormed(t, string(page))
	require.Contains(t, string(page), "test.cc")
	require.Contains(t, string(page), "Calculator")
	// Keywords are wrapped in token spans distinct from identifiers.
	require.Contains(t, string(page), `<span class="k"`)
}

func TestConvert_DirectoryFilters(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.cpp", "int a() { return 1; }\n")
	writeFile(t, root, "a_test.cpp", "int t() { return 2; }\n")
	writeFile(t, root, "b.h", "#pragma once\n")

	_, err := runCommand(t, root, "--not-match-f", "test", "--exclude-ext", "h", "--quiet")
	require.NoError(t, err)

	page, readErr := os.ReadFile(filepath.Join(root, "bundle.html"))
	require.NoError(t, readErr)

	requireWellFormed(t, string(page))
	require.Contains(t, string(page), "a.cpp")
	require.NotContains(t, string(page), "a_test.cpp")
	require.NotContains(t, string(page), "b.h")
}

func TestConvert_DirectoryBundleHasTOC(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go", "package a\n")
	writeFile(t, root, "b.go", "package b\n")

	_, err := runCommand(t, root, "--quiet")
	require.NoError(t, err)

	page, readErr := os.ReadFile(filepath.Join(root, "bundle.html"))
	require.NoError(t, readErr)

	require.Contains(t, string(page), "Table of Contents")
	require.Contains(t, string(page), `href="#file-0"`)
	require.Contains(t, string(page), `href="#file-1"`)
}

func TestConvert_EmptyDirectory(t *testing.T) {
	root := t.TempDir()

	_, err := runCommand(t, root, "--quiet")
	require.ErrorIs(t, err, selector.ErrNoFilesMatched)

	_, statErr := os.Stat(filepath.Join(root, "bundle.html"))
	require.True(t, os.IsNotExist(statErr))
}

func TestConvert_MissingInput(t *testing.T) {
	_, err := runCommand(t, filepath.Join(t.TempDir(), "nope"), "--quiet")
	require.ErrorIs(t, err, selector.ErrInputNotFound)
}

func TestConvert_OutputFlag(t *testing.T) {
	root := t.TempDir()
	source := writeFile(t, root, "main.go", "package main\n")
	outputPath := filepath.Join(root, "custom.html")

	_, err := runCommand(t, source, "-o", outputPath, "--quiet")
	require.NoError(t, err)

	page, readErr := os.ReadFile(outputPath)
	require.NoError(t, readErr)
	require.Contains(t, string(page), "main.go")
}

func TestConvert_BinaryFilesSkippedWithWarning(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go", "package a\n")

	binErr := os.WriteFile(filepath.Join(root, "blob.txt"), []byte{0x00, 0xff, 0x00}, 0o644)
	require.NoError(t, binErr)

	_, err := runCommand(t, root, "--quiet")
	require.NoError(t, err)

	page, readErr := os.ReadFile(filepath.Join(root, "bundle.html"))
	require.NoError(t, readErr)

	require.Contains(t, string(page), "a.go")
	require.NotContains(t, string(page), `>blob.txt<`)
}

func TestConvert_AllFilesUnreadableIsFatal(t *testing.T) {
	root := t.TempDir()

	for _, name := range []string{"a.txt", "b.txt"} {
		binErr := os.WriteFile(filepath.Join(root, name), []byte{0x00, 0xff, 0x00}, 0o644)
		require.NoError(t, binErr)
	}

	_, err := runCommand(t, root, "--quiet")
	require.ErrorIs(t, err, ErrAllFilesSkipped)

	_, statErr := os.Stat(filepath.Join(root, "bundle.html"))
	require.True(t, os.IsNotExist(statErr))
}

func TestConvert_StatusOutput(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go", "package a\n")
	writeFile(t, root, "b.go", "package b\n")

	out, err := runCommand(t, root)
	require.NoError(t, err)

	require.Contains(t, out, "Found 2 files:")
	require.Contains(t, out, "a.go")
	require.Contains(t, out, "Generated:")
}

func TestConvert_QuietSuppressesStatus(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go", "package a\n")

	out, err := runCommand(t, root, "--quiet")
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestResolveOutputPath_SwapsExtension(t *testing.T) {
	t.Parallel()

	params := &convertParams{source: filepath.Join("dir", "test.cc")}
	require.Equal(t, filepath.Join("dir", "test.html"), resolveOutputPath(params, false))
}

func TestResolveOutputPath_DirectoryBundle(t *testing.T) {
	t.Parallel()

	params := &convertParams{source: "project"}
	require.Equal(t, filepath.Join("project", bundleFileName), resolveOutputPath(params, true))
}
