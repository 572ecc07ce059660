package render

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
	"text/template"

	"potool/pkg/models"
)

const docxDocumentEntry = "word/document.xml"

// renderDOCX applies the document-template strategy: build the nested
// context (flat field map plus ordered per-item maps) and hand the
// document body to the templating engine, which owns loop and
// substitution resolution. Known tokens are accepted in both the spaced
// and unspaced spellings; unknown tokens are left in place.
func (r *Renderer) renderDOCX(order *models.Order, totals models.Totals, templatePath string) ([]byte, error) {
	const op = "RenderDOCX"

	zr, err := zip.OpenReader(templatePath)
	if err != nil {
		return nil, newRenderError(op, templatePath, fmt.Errorf("%w: %v", ErrMalformedTemplate, err))
	}
	defer func() {
		if closeErr := zr.Close(); closeErr != nil {
			r.log.Warn().Err(closeErr).Msg("Failed to close template document")
		}
	}()

	ctx := BuildContext(order, totals)

	data := make(map[string]interface{}, len(ctx.Fields)+1)
	for k, v := range ctx.Fields {
		data[k] = v
	}
	data["items"] = ctx.Items

	var out bytes.Buffer
	zw := zip.NewWriter(&out)

	for _, entry := range zr.File {
		content, readErr := readZipEntry(entry)
		if readErr != nil {
			return nil, newRenderError(op, templatePath, readErr)
		}

		if entry.Name == docxDocumentEntry {
			content, err = executeBody(string(content), data)
			if err != nil {
				return nil, newRenderError(op, templatePath, err)
			}
		}

		w, createErr := zw.Create(entry.Name)
		if createErr != nil {
			return nil, newRenderError(op, templatePath, createErr)
		}
		if _, writeErr := w.Write(content); writeErr != nil {
			return nil, newRenderError(op, templatePath, writeErr)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, newRenderError(op, templatePath, err)
	}
	return out.Bytes(), nil
}

func readZipEntry(entry *zip.File) ([]byte, error) {
	rc, err := entry.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", entry.Name, err)
	}
	defer rc.Close()
	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", entry.Name, err)
	}
	return content, nil
}

// executeBody resolves the document body through the templating engine.
func executeBody(body string, data map[string]interface{}) ([]byte, error) {
	normalized := normalizeTokens(body)

	tmpl, err := template.New("document").Parse(normalized)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTemplate, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}
	return buf.Bytes(), nil
}

var bareTokenRe = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_.]*)\s*\}\}`)

var engineKeywords = map[string]bool{
	"range": true, "end": true, "else": true, "if": true,
	"with": true, "template": true, "block": true, "define": true,
}

// normalizeTokens rewrites known placeholder tokens into the engine's
// dotted field syntax so that "{{ po_no }}" and "{{po_no}}" both resolve.
// Engine keywords (range, end, ...) pass through untouched; unknown bare
// tokens are escaped so they survive as literal text instead of failing
// the parse.
func normalizeTokens(body string) string {
	keys := make([]string, 0, len(FieldKeys)+len(ItemKeys))
	keys = append(keys, FieldKeys...)
	keys = append(keys, ItemKeys...)

	for _, key := range keys {
		body = strings.ReplaceAll(body, "{{ "+key+" }}", "{{."+key+"}}")
		body = strings.ReplaceAll(body, "{{"+key+"}}", "{{."+key+"}}")
	}

	return bareTokenRe.ReplaceAllStringFunc(body, func(tok string) string {
		name := bareTokenRe.FindStringSubmatch(tok)[1]
		if engineKeywords[name] {
			return tok
		}
		return "{{`" + tok + "`}}"
	})
}
