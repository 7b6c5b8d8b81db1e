// Package extract pulls the plain text out of uploaded documents so AI actions can run on it.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/trezcool/studybuddy/core/document"
)

const (
	MaxFileSize = 20 << 20 // bytes read from a stored file
	MaxPDFPages = 200
	MaxTextSize = 1 << 20 // bytes of extracted text kept
)

var ErrTooLarge = errors.New("file too large to extract")

type Extractor struct {
	md goldmark.Markdown
}

var _ document.Extractor = (*Extractor)(nil) // interface compliance check

func New() *Extractor {
	return &Extractor{md: goldmark.New()}
}

// Extract returns the text of the body for plain text, markdown and PDF files, and nil for
// any other type.
func (e *Extractor) Extract(ctx context.Context, fileType string, r io.Reader) (*string, error) {
	if !Supported(fileType) {
		return nil, nil
	}
	data, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}
	if len(data) > MaxFileSize {
		return nil, ErrTooLarge
	}
	if err = ctx.Err(); err != nil {
		return nil, err
	}

	var txt string
	switch fileType {
	case "application/pdf":
		if txt, err = e.pdfText(ctx, data); err != nil {
			return nil, err
		}
	case "text/markdown":
		txt = e.markdownText(data)
	default:
		txt = string(bytes.ToValidUTF8(data, []byte("�")))
	}

	txt = truncate(strings.TrimSpace(txt), MaxTextSize)
	if txt == "" {
		return nil, nil
	}
	return &txt, nil
}

func Supported(fileType string) bool {
	switch fileType {
	case "text/plain", "text/markdown", "application/pdf":
		return true
	}
	return false
}

func (e *Extractor) pdfText(ctx context.Context, data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.Wrap(err, "opening PDF")
	}
	pages := reader.NumPage()
	if pages > MaxPDFPages {
		return "", errors.Errorf("PDF has %d pages, max %d", pages, MaxPDFPages)
	}

	var sb strings.Builder
	for num := 1; num <= pages; num++ {
		if err = ctx.Err(); err != nil {
			return "", err
		}
		page := reader.Page(num)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue // unreadable page
		}
		content = strings.TrimSpace(strings.ReplaceAll(content, "\x00", ""))
		if content == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(content)
		if sb.Len() > MaxTextSize {
			break
		}
	}
	return sb.String(), nil
}

// markdownText drops the markup and keeps the text, one block per paragraph.
func (e *Extractor) markdownText(src []byte) string {
	doc := e.md.Parser().Parse(text.NewReader(src))

	var sb strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock && n.Kind() != ast.KindDocument && n.Kind() != ast.KindListItem {
				sb.WriteString("\n")
			}
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Text:
			sb.Write(node.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				sb.WriteString("\n")
			}
		case *ast.String:
			sb.Write(node.Value)
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				sb.Write(seg.Value(src))
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}

// truncate cuts s to at most limit bytes without splitting a rune.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + fmt.Sprintf("\n[truncated at %d bytes]", cut)
}
