package source

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/xerrors"
)

// ReportErrorHTML replaces the report when it cannot be loaded.
const ReportErrorHTML = "<p>Error loading report. Please try again later.</p>"

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Elements removed from rendered reports along with their content.
const strippedElements = "script, style, iframe, object, embed, form, link, meta, base"

// Attributes whose values are URLs.
var urlAttributes = map[string]bool{"href": true, "src": true, "action": true, "formaction": true, "xlink:href": true}

// RenderMarkdown converts a Markdown report to sanitized HTML.
func RenderMarkdown(md []byte) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert(md, &buf); err != nil {
		return "", xerrors.Errorf("failed to render markdown: %w", err)
	}
	return Sanitize(buf.String())
}

// Sanitize strips active content from an HTML fragment: scripting elements,
// event handler attributes and script or data URLs.
func Sanitize(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", xerrors.Errorf("failed to parse report HTML: %w", err)
	}

	doc.Find(strippedElements).Remove()
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		var drop []string
		for _, attr := range s.Nodes[0].Attr {
			key := strings.ToLower(attr.Key)
			switch {
			case strings.HasPrefix(key, "on"):
				drop = append(drop, attr.Key)
			case urlAttributes[key] && unsafeURL(attr.Val):
				drop = append(drop, attr.Key)
			}
		}
		for _, key := range drop {
			s.RemoveAttr(key)
		}
	})

	html, err := doc.Find("body").Html()
	if err != nil {
		return "", xerrors.Errorf("failed to render report HTML: %w", err)
	}
	return strings.TrimSpace(html), nil
}

func unsafeURL(raw string) bool {
	v := strings.ToLower(strings.Join(strings.Fields(raw), ""))
	return strings.HasPrefix(v, "javascript:") ||
		strings.HasPrefix(v, "vbscript:") ||
		strings.HasPrefix(v, "data:")
}

// Title returns the text of the first heading of a rendered report, or the
// empty string.
func Title(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("h1, h2").First().Text())
}
