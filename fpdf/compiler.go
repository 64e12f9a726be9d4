// Package fpdf renders dossiers as PDF documents using go-pdf/fpdf.
package fpdf

import (
	"bytes"
	"fmt"

	"github.com/fwojciec/geodossier"
	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"
)

// Page geometry in millimetres.
const (
	lineHeight    = 6.0
	headingHeight = 8.0
	bodyIndent    = 4.0
)

var _ geodossier.Compiler = (*Compiler)(nil)

// Compiler renders an AnalysisResult as an A4 PDF. Output is byte-identical
// for identical input: document dates come from the result, not the clock.
type Compiler struct {
	Style geodossier.DossierStyle
}

// NewCompiler creates a Compiler with the given style.
func NewCompiler(style geodossier.DossierStyle) *Compiler {
	return &Compiler{Style: style}
}

// Compile renders result. Text that cannot be represented in the core
// font encoding (cp1252) fails the render instead of being replaced.
func (c *Compiler) Compile(result *geodossier.AnalysisResult) (*geodossier.DossierArtifact, error) {
	if result == nil {
		return nil, geodossier.Errorf(geodossier.ERENDERFAILURE, "no analysis result")
	}

	d, err := encodeDossier(geodossier.ComposeDossier(result, c.Style))
	if err != nil {
		return nil, geodossier.Errorf(geodossier.ERENDERFAILURE, "encoding dossier text: %v", err)
	}

	content, err := c.render(d, result)
	if err != nil {
		return nil, geodossier.Errorf(geodossier.ERENDERFAILURE, "rendering PDF: %v", err)
	}

	filename := geodossier.ArtifactFilename(result.Location.ResolvedMunicipality, result.GeneratedAt, "pdf")
	return geodossier.NewArtifact(filename, geodossier.MIMETypePDF, content), nil
}

func (c *Compiler) render(d *geodossier.Dossier, result *geodossier.AnalysisResult) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(result.GeneratedAt)
	pdf.SetModificationDate(result.GeneratedAt)
	pdf.SetCatalogSort(true)
	pdf.SetCompression(c.Style.Compress)
	pdf.SetTitle(d.Title, false)
	pdf.SetCreator("geodossier", false)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AliasNbPages("")

	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetTextColor(160, 0, 0)
		pdf.CellFormat(0, 5, d.Banner, "B", 1, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(4)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})

	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, d.Title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(96, 96, 96)
	pdf.CellFormat(0, 5, d.Subtitle, "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	fill := c.Style.HeadingFill
	for _, section := range d.Sections {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetFillColor(fill[0], fill[1], fill[2])
		pdf.CellFormat(0, headingHeight, section.Heading, "", 1, "L", true, 0, "")
		pdf.Ln(2)

		pdf.SetFont("Helvetica", "", 10)
		for _, line := range section.Lines {
			pdf.MultiCell(0, lineHeight, line, "", "L", false)
		}

		for _, entry := range section.Entries {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.MultiCell(0, lineHeight, entry.Heading, "", "L", false)
			if entry.Body != "" {
				pdf.SetFont("Helvetica", "", 9)
				left, _, _, _ := pdf.GetMargins()
				pdf.SetX(left + bodyIndent)
				pdf.MultiCell(0, lineHeight, entry.Body, "", "L", false)
			}
		}
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// encodeDossier returns a copy of d with all text converted to cp1252.
func encodeDossier(d *geodossier.Dossier) (*geodossier.Dossier, error) {
	enc := charmap.Windows1252.NewEncoder()
	var firstErr error
	conv := func(s string) string {
		if firstErr != nil {
			return ""
		}
		out, err := enc.String(s)
		if err != nil {
			firstErr = fmt.Errorf("%q: %w", s, err)
			return ""
		}
		return out
	}

	out := &geodossier.Dossier{
		Banner:   conv(d.Banner),
		Title:    conv(d.Title),
		Subtitle: conv(d.Subtitle),
	}
	for _, s := range d.Sections {
		section := geodossier.DossierSection{Heading: conv(s.Heading)}
		for _, line := range s.Lines {
			section.Lines = append(section.Lines, conv(line))
		}
		for _, e := range s.Entries {
			section.Entries = append(section.Entries, geodossier.DossierEntry{
				Heading: conv(e.Heading),
				Body:    conv(e.Body),
			})
		}
		out.Sections = append(out.Sections, section)
	}
	return out, firstErr
}
