// Package assemble wraps highlighted fragments in a single standalone
// HTML document: one shared stylesheet, one labeled section per file,
// and a table of contents for multi-file bundles.
package assemble

import (
	"fmt"
	"html/template"
	"io"
)

// Section is one file's slot in the document. Fragment must already be
// safe HTML (the highlighter escapes source text); it is inserted
// without re-escaping. DisplayName passes through html/template and is
// escaped there.
type Section struct {
	DisplayName string
	AnchorID    string
	Fragment    string
}

// Document is a complete output page.
type Document struct {
	Title    string
	TokenCSS string // token color rules from the highlighter
	Sections []Section
}

// Render writes the document as a complete HTML page. A table of
// contents is emitted only when the document bundles more than one
// section.
func (d *Document) Render(w io.Writer) error {
	tmpl, err := getTemplates()
	if err != nil {
		return err
	}

	sections := make([]sectionData, len(d.Sections))
	for i, s := range d.Sections {
		sections[i] = sectionData{
			DisplayName: s.DisplayName,
			AnchorID:    s.AnchorID,
			Fragment:    template.HTML(s.Fragment),
		}
	}

	data := pageData{
		Title:    d.Title,
		TokenCSS: template.CSS(d.TokenCSS),
		ShowTOC:  len(sections) > 1,
		Sections: sections,
	}

	execErr := tmpl.ExecuteTemplate(w, "page.html", data)
	if execErr != nil {
		return fmt.Errorf("render document: %w", execErr)
	}

	return nil
}

type pageData struct {
	Title    string
	TokenCSS template.CSS
	ShowTOC  bool
	Sections []sectionData
}

type sectionData struct {
	DisplayName string
	AnchorID    string
	Fragment    template.HTML
}
