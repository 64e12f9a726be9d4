// Package docx renders dossiers as Word documents using gingfrederik/docx.
package docx

import (
	"os"
	"path/filepath"

	"github.com/fwojciec/geodossier"
	"github.com/gingfrederik/docx"
)

// Font sizes in points.
const (
	bannerSize  = 8
	titleSize   = 20
	headingSize = 14
	entrySize   = 11
	bodySize    = 10
)

var _ geodossier.Compiler = (*Compiler)(nil)

// Compiler renders an AnalysisResult as a DOCX document with the same
// content and section order as the PDF dossier.
type Compiler struct {
	Style geodossier.DossierStyle
}

// NewCompiler creates a Compiler with the given style.
func NewCompiler(style geodossier.DossierStyle) *Compiler {
	return &Compiler{Style: style}
}

// Compile renders result.
func (c *Compiler) Compile(result *geodossier.AnalysisResult) (*geodossier.DossierArtifact, error) {
	if result == nil {
		return nil, geodossier.Errorf(geodossier.ERENDERFAILURE, "no analysis result")
	}

	d := geodossier.ComposeDossier(result, c.Style)

	f := docx.NewFile()
	f.AddParagraph().AddText(d.Banner).Size(bannerSize).Color("A00000")
	f.AddParagraph().AddText(d.Title).Size(titleSize)
	f.AddParagraph().AddText(d.Subtitle).Size(bodySize).Color("606060")
	f.AddParagraph()

	for _, section := range d.Sections {
		f.AddParagraph().AddText(section.Heading).Size(headingSize)
		for _, line := range section.Lines {
			f.AddParagraph().AddText(line).Size(bodySize)
		}
		for _, entry := range section.Entries {
			f.AddParagraph().AddText(entry.Heading).Size(entrySize)
			if entry.Body != "" {
				f.AddParagraph().AddText(entry.Body).Size(bodySize).Color("808080")
			}
		}
		f.AddParagraph()
	}

	content, err := save(f)
	if err != nil {
		return nil, geodossier.Errorf(geodossier.ERENDERFAILURE, "rendering DOCX: %v", err)
	}

	filename := geodossier.ArtifactFilename(result.Location.ResolvedMunicipality, result.GeneratedAt, "docx")
	return geodossier.NewArtifact(filename, geodossier.MIMETypeDOCX, content), nil
}

// save writes f through a scratch file, which is the only output the
// library exposes, and returns its bytes.
func save(f *docx.File) ([]byte, error) {
	dir, err := os.MkdirTemp("", "geodossier-docx-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "dossier.docx")
	if err := f.Save(path); err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}
