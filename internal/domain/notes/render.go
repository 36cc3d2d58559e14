package notes

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"github.com/GriffinCanCode/Klin/backend/internal/shared/apperr"
)

// Renderer converts note Markdown to HTML that is safe to inject into the webview
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewRenderer creates a GitHub flavoured Markdown renderer.
// Raw HTML is passed through goldmark and then stripped by the UGC policy.
func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
		policy: bluemonday.UGCPolicy(),
	}
}

// Render converts source to sanitized HTML and returns the first level-1 heading
func (r *Renderer) Render(source []byte) (string, string, error) {
	doc := r.md.Parser().Parse(text.NewReader(source))

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, source, doc); err != nil {
		return "", "", apperr.Wrap(apperr.IoFailure, "Failed to render note", err)
	}

	return string(r.policy.SanitizeBytes(buf.Bytes())), firstHeading(doc, source), nil
}

func firstHeading(doc ast.Node, source []byte) string {
	var heading string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok || h.Level != 1 {
			return ast.WalkContinue, nil
		}
		heading = plainText(h, source)
		return ast.WalkStop, nil
	})
	return heading
}

func plainText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := c.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

// Render reads a note and converts it to sanitized HTML
func (s *Store) Render(r *Renderer, filename string) (Rendered, error) {
	content, err := s.Read(filename)
	if err != nil {
		return Rendered{}, err
	}
	out, heading, err := r.Render([]byte(content))
	if err != nil {
		return Rendered{}, err
	}
	return Rendered{Filename: filename, HTML: out, Heading: heading}, nil
}
