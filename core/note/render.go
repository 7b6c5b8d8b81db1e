package note

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	md = goldmark.New(goldmark.WithExtensions(extension.GFM))

	htmlRegex = regexp.MustCompile(`(?i)^\s*<(!doctype|html|p|div|h[1-6]|ul|ol|table|span|br|strong|em)[\s>/]`)
)

// IsHTML reports whether content was saved by the rich text editor.
func IsHTML(content string) bool {
	return htmlRegex.MatchString(content)
}

// RenderHTML returns content as HTML; markdown is converted, HTML is returned as is.
// Raw HTML inside markdown is not rendered.
func RenderHTML(content string) (string, error) {
	if strings.TrimSpace(content) == "" || IsHTML(content) {
		return content, nil
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(content), &buf); err != nil {
		return "", errors.Wrap(err, "rendering markdown")
	}
	return buf.String(), nil
}
