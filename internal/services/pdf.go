package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/jung-kurt/gofpdf"

	"github.com/owasp-zof/tabletop-portal/internal/logger"
	"github.com/owasp-zof/tabletop-portal/internal/utils"
)

// PDFService renders a generated document bundle to a PDF file and returns
// its path. Content is markdown-lite: #/##/### headings, **bold**, *italic*,
// `code`, and -/*/N. list items; unmatched markers render as literal text.
type PDFService interface {
	Generate(title, description, content, learningGoals string) (string, error)
}

type pdfService struct {
	log       *logger.Logger
	outputDir string
}

func NewPDFService(log *logger.Logger) (PDFService, error) {
	serviceLog := log.With("service", "PDFService")

	outputDir := utils.GetEnv("PDF_OUTPUT_DIR", "./generated_pdfs", log)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create pdf output dir: %w", err)
	}

	return &pdfService{log: serviceLog, outputDir: outputDir}, nil
}

const (
	pageMargin    = 72.0
	bodyFontSize  = 11.0
	bodyLineHt    = 16.0
	headingLineHt = 22.0
)

func (s *pdfService) Generate(title, description, content, learningGoals string) (string, error) {
	filename := buildPDFFilename(title, time.Now())
	path := filepath.Join(s.outputDir, filename)

	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.AddPage()

	// Title
	pdf.SetTextColor(0x1a, 0x1a, 0x2e)
	pdf.SetFont("Helvetica", "B", 24)
	pdf.MultiCell(0, 30, title, "", "L", false)
	pdf.Ln(18)

	// Description box
	s.writeHeading(pdf, "Overview")
	pdf.SetTextColor(0x4a, 0x4a, 0x4a)
	pdf.SetFont("Helvetica", "", 12)
	pdf.MultiCell(0, 18, description, "", "L", false)
	pdf.Ln(18)

	// Learning goals
	s.writeHeading(pdf, "Learning Goals")
	s.writeMarkdown(pdf, learningGoals)
	pdf.Ln(18)

	// Main content on a fresh page
	pdf.AddPage()
	s.writeHeading(pdf, "Document Content")
	s.writeMarkdown(pdf, content)

	// Footer
	pdf.Ln(36)
	pdf.SetTextColor(0x88, 0x88, 0x88)
	pdf.SetFont("Helvetica", "", 9)
	pdf.MultiCell(0, 12, fmt.Sprintf("Generated by OWASP Zombies on Fire Tabletop Portal | %s", time.Now().Format("2006-01-02 15:04")), "", "L", false)

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("failed to write pdf: %w", err)
	}
	return path, nil
}

func (s *pdfService) writeHeading(pdf *gofpdf.Fpdf, text string) {
	pdf.SetTextColor(0x16, 0x21, 0x3e)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, headingLineHt, text, "", "L", false)
	pdf.Ln(6)
}

func (s *pdfService) writeSubheading(pdf *gofpdf.Fpdf, text string) {
	pdf.SetTextColor(0x0f, 0x34, 0x60)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.MultiCell(0, 18, text, "", "L", false)
	pdf.Ln(4)
}

// writeMarkdown walks content line by line, handling headings and list items
// at line level and bold/italic/code inline.
func (s *pdfService) writeMarkdown(pdf *gofpdf.Fpdf, content string) {
	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			pdf.Ln(8)
			continue
		}

		switch {
		case strings.HasPrefix(line, "### "):
			s.writeSubheading(pdf, strings.TrimPrefix(line, "### "))
		case strings.HasPrefix(line, "## "):
			s.writeHeading(pdf, strings.TrimPrefix(line, "## "))
		case strings.HasPrefix(line, "# "):
			s.writeHeading(pdf, strings.TrimPrefix(line, "# "))
		case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "):
			s.writeListItem(pdf, "•", line[2:])
		default:
			if prefix, rest, ok := splitNumberedItem(line); ok {
				s.writeListItem(pdf, prefix, rest)
				continue
			}
			s.writeInline(pdf, line)
			pdf.Ln(bodyLineHt)
		}
	}
}

func (s *pdfService) writeListItem(pdf *gofpdf.Fpdf, marker, text string) {
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", bodyFontSize)
	pdf.SetX(pageMargin + 20)
	pdf.Write(bodyLineHt, marker+" ")
	s.writeInline(pdf, text)
	pdf.Ln(bodyLineHt)
	pdf.SetX(pageMargin)
}

// writeInline emits a line with inline bold/italic/code spans. Markers with no
// closing partner stay in the output as-is.
func (s *pdfService) writeInline(pdf *gofpdf.Fpdf, text string) {
	pdf.SetTextColor(0, 0, 0)
	for _, sp := range inlineSpans(text) {
		switch sp.style {
		case spanBold:
			pdf.SetFont("Helvetica", "B", bodyFontSize)
		case spanItalic:
			pdf.SetFont("Helvetica", "I", bodyFontSize)
		case spanCode:
			pdf.SetFont("Courier", "", bodyFontSize)
		default:
			pdf.SetFont("Helvetica", "", bodyFontSize)
		}
		pdf.Write(bodyLineHt, sp.text)
	}
	pdf.SetFont("Helvetica", "", bodyFontSize)
}

type spanStyle int

const (
	spanPlain spanStyle = iota
	spanBold
	spanItalic
	spanCode
)

type inlineSpan struct {
	text  string
	style spanStyle
}

// inlineSpans splits a line into styled spans. It scans left to right for
// **..**, *..*, and `..` pairs; an opener without a closer is literal text.
func inlineSpans(text string) []inlineSpan {
	var spans []inlineSpan
	var plain strings.Builder

	flush := func() {
		if plain.Len() > 0 {
			spans = append(spans, inlineSpan{text: plain.String(), style: spanPlain})
			plain.Reset()
		}
	}

	i := 0
	for i < len(text) {
		switch {
		case strings.HasPrefix(text[i:], "**"):
			if end := strings.Index(text[i+2:], "**"); end >= 0 {
				flush()
				spans = append(spans, inlineSpan{text: text[i+2 : i+2+end], style: spanBold})
				i += 2 + end + 2
				continue
			}
			plain.WriteString("**")
			i += 2
		case text[i] == '*':
			if end := strings.IndexByte(text[i+1:], '*'); end >= 0 {
				flush()
				spans = append(spans, inlineSpan{text: text[i+1 : i+1+end], style: spanItalic})
				i += 1 + end + 1
				continue
			}
			plain.WriteByte('*')
			i++
		case text[i] == '`':
			if end := strings.IndexByte(text[i+1:], '`'); end >= 0 {
				flush()
				spans = append(spans, inlineSpan{text: text[i+1 : i+1+end], style: spanCode})
				i += 1 + end + 1
				continue
			}
			plain.WriteByte('`')
			i++
		default:
			plain.WriteByte(text[i])
			i++
		}
	}
	flush()
	return spans
}

// splitNumberedItem recognizes "N." / "N)" list lines and returns the marker
// and the remaining text.
func splitNumberedItem(line string) (string, string, bool) {
	if len(line) < 3 {
		return "", "", false
	}
	i := 0
	for i < len(line) && unicode.IsDigit(rune(line[i])) {
		i++
	}
	if i == 0 || i >= len(line) {
		return "", "", false
	}
	if line[i] != '.' && line[i] != ')' {
		return "", "", false
	}
	rest := strings.TrimSpace(line[i+1:])
	if rest == "" {
		return "", "", false
	}
	return line[:i+1], rest, true
}

// buildPDFFilename sanitizes the title to alphanumerics, spaces, hyphens, and
// underscores, collapses spaces to underscores, truncates to 50 characters,
// and appends a timestamp.
func buildPDFFilename(title string, now time.Time) string {
	var b strings.Builder
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	safe := strings.ReplaceAll(b.String(), " ", "_")
	if len(safe) > 50 {
		safe = safe[:50]
	}
	return fmt.Sprintf("%s_%s.pdf", safe, now.Format("20060102_150405"))
}
