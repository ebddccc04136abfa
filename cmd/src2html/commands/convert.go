// Package commands implements the CLI command handlers for src2html.
package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/src-d/enry/v2"

	"github.com/adamsoliev/src2html/internal/assemble"
	"github.com/adamsoliev/src2html/internal/browser"
	"github.com/adamsoliev/src2html/internal/config"
	"github.com/adamsoliev/src2html/internal/highlight"
	"github.com/adamsoliev/src2html/internal/selector"
)

const (
	bundleFileName = "bundle.html"
	outputFilePerm = 0o644
)

// ErrAllFilesSkipped is returned when every selected file failed to
// load, leaving nothing to render.
var ErrAllFilesSkipped = errors.New("no readable source files")

// convertParams carries the resolved flag values for one run.
type convertParams struct {
	source     string
	output     string
	open       bool
	notMatch   []string
	excludeExt []string
	quiet      bool
}

// NewConvertCommand creates the root convert command.
func NewConvertCommand() *cobra.Command {
	return buildConvertCommand(os.Stdout)
}

func buildConvertCommand(stdout io.Writer) *cobra.Command {
	params := &convertParams{}

	cmd := &cobra.Command{
		Use:   "src2html <path>",
		Short: "Convert source code to syntax-highlighted HTML",
		Long: `src2html converts a source file or directory into a single
self-contained, syntax-highlighted HTML document.

Directories are scanned recursively; the resulting bundle carries one
section per file plus a table of contents.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, args []string) error {
			params.source = args[0]

			return runConvert(params, stdout)
		},
	}

	cmd.Flags().StringVarP(&params.output, "output", "o", "",
		"output HTML file (default: <source>.html, or bundle.html for a directory)")
	cmd.Flags().BoolVar(&params.open, "open", false,
		"open the result in the default browser")
	cmd.Flags().StringArrayVar(&params.notMatch, "not-match-f", nil,
		"exclude files whose name contains this pattern (repeatable, comma-separated)")
	cmd.Flags().StringArrayVar(&params.excludeExt, "exclude-ext", nil,
		"exclude files with this extension (repeatable, comma-separated)")
	cmd.Flags().BoolVarP(&params.quiet, "quiet", "q", false,
		"suppress status output")

	return cmd
}

func runConvert(params *convertParams, stdout io.Writer) error {
	opts, err := config.Load()
	if err != nil {
		return err
	}

	info, statErr := os.Stat(params.source)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return fmt.Errorf("%w: %s", selector.ErrInputNotFound, params.source)
		}

		return fmt.Errorf("stat %s: %w", params.source, statErr)
	}

	dirMode := info.IsDir()
	rules := selector.NewRules(params.notMatch, params.excludeExt)

	files, err := selector.Collect(params.source, rules)
	if err != nil {
		return err
	}

	if dirMode && !params.quiet {
		printFileTable(stdout, files)
	}

	doc, err := buildDocument(params, opts, files, dirMode)
	if err != nil {
		return err
	}

	outputPath := resolveOutputPath(params, dirMode)

	writeErr := writeDocument(doc, outputPath)
	if writeErr != nil {
		return writeErr
	}

	if !params.quiet {
		size := documentSize(outputPath)
		color.New(color.FgGreen).Fprintf(stdout, "✓ Generated: %s (%s)\n", outputPath, size)
	}

	if params.open {
		openErr := browser.Open(outputPath)
		if openErr != nil {
			return openErr
		}

		if !params.quiet {
			color.New(color.FgGreen).Fprintln(stdout, "✓ Opened in browser")
		}
	}

	return nil
}

// buildDocument runs the highlight pipeline over the selected files.
// Unreadable and binary files are skipped with a warning; the run only
// fails when nothing at all could be rendered.
func buildDocument(
	params *convertParams,
	opts config.Options,
	files []selector.File,
	dirMode bool,
) (*assemble.Document, error) {
	highlighter := highlight.New(opts.Style, opts.LineNumbers)

	tokenCSS, err := highlighter.StylesheetCSS()
	if err != nil {
		return nil, err
	}

	sections := make([]assemble.Section, 0, len(files))

	for i, file := range files {
		content, loadErr := selector.Load(file)
		if loadErr != nil {
			slog.Warn("skipping file", "path", file.DisplayName, "error", loadErr)

			continue
		}

		anchorPrefix := fmt.Sprintf("file%d-line", i)

		fragment, fragErr := highlighter.Fragment(content.Text, filepath.Base(file.Path), content.Language, anchorPrefix)
		if fragErr != nil {
			slog.Warn("skipping file", "path", file.DisplayName, "error", fragErr)

			continue
		}

		sections = append(sections, assemble.Section{
			DisplayName: file.DisplayName,
			AnchorID:    fmt.Sprintf("file-%d", i),
			Fragment:    fragment,
		})
	}

	if len(sections) == 0 {
		return nil, ErrAllFilesSkipped
	}

	return &assemble.Document{
		Title:    documentTitle(params.source, opts.Title, dirMode),
		TokenCSS: tokenCSS,
		Sections: sections,
	}, nil
}

// resolveOutputPath applies the default output naming: the source path
// with its extension swapped for .html in single-file mode, bundle.html
// inside the directory in directory mode.
func resolveOutputPath(params *convertParams, dirMode bool) string {
	if params.output != "" {
		return params.output
	}

	if dirMode {
		return filepath.Join(params.source, bundleFileName)
	}

	ext := filepath.Ext(params.source)

	return strings.TrimSuffix(params.source, ext) + ".html"
}

func documentTitle(source, override string, dirMode bool) string {
	if override != "" {
		return override
	}

	base := filepath.Base(absOrSelf(source))
	if dirMode {
		return base + " - Source Code"
	}

	return base
}

func absOrSelf(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}

	return abs
}

func writeDocument(doc *assemble.Document, outputPath string) error {
	out, createErr := os.OpenFile(outputPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, outputFilePerm)
	if createErr != nil {
		return fmt.Errorf("create %s: %w", outputPath, createErr)
	}
	renderErr := doc.Render(out)

	closeErr := out.Close()

	if renderErr != nil {
		return fmt.Errorf("write %s: %w", outputPath, renderErr)
	}

	if closeErr != nil {
		return fmt.Errorf("close %s: %w", outputPath, closeErr)
	}

	return nil
}

// printFileTable lists the selected files with their detected language
// and size, in the order they will appear in the bundle.
func printFileTable(stdout io.Writer, files []selector.File) {
	fmt.Fprintf(stdout, "Found %d files:\n", len(files))

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false

	tbl.AppendHeader(table.Row{"File", "Language", "Size"})

	for _, file := range files {
		lang := enry.GetLanguage(filepath.Base(file.Path), nil)
		if lang == "" {
			lang = "-"
		}

		tbl.AppendRow(table.Row{file.DisplayName, lang, humanize.Bytes(uint64(file.Size))})
	}

	fmt.Fprintln(stdout, tbl.Render())
}

func documentSize(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "unknown size"
	}

	return humanize.Bytes(uint64(info.Size()))
}
