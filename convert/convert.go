// Package convert orchestrates the pipeline from an exported article JSON
// payload to a finished HWPX package on disk.
package convert

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/HC-ProductTech/hwpers/article"
	"github.com/HC-ProductTech/hwpers/config"
	"github.com/HC-ProductTech/hwpers/htmltable"
	"github.com/HC-ProductTech/hwpers/hwpx"
	"github.com/HC-ProductTech/hwpers/media"
)

// separatorLine divides the metadata block from the article body.
const separatorLine = "─────────────────────────"

// metadataFields lists the header block rows in render order. Keys match the
// headerFields filter values of the input contract.
var metadataFields = []struct {
	key   string
	label string
}{
	{"subject", "제목"},
	{"regEmpName", "작성자"},
	{"regDeptName", "부서"},
	{"regDt", "작성일"},
}

// Build assembles the document model from a prepared article. Content items
// are rendered in order with one empty separator paragraph between
// consecutive items.
func Build(ctx context.Context, e *article.Envelope, loader *media.Loader, cfg *config.DocumentConfig, log *zap.Logger) (*hwpx.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	art := &e.Data.Article

	d := hwpx.NewDocument()
	d.SetMetadata(hwpx.Metadata{
		Title:   art.Subject,
		Creator: art.Creator(),
		Created: art.RegDt,
	})

	applyPageDecorations(d, cfg)

	if e.Options.IncludeHeader {
		addMetadataBlock(d, e)
	}

	if len(art.Contents) == 0 {
		log.Warn("Article has no contents, producing an empty document", zap.String("id", art.AtclID))
	}

	for i := range art.Contents {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if i > 0 {
			d.AddParagraph("")
		}

		c := &art.Contents[i]
		switch c.Type {
		case article.ContentText:
			addTextParagraphs(d, c.Value)
		case article.ContentImage:
			if err := addImage(ctx, d, loader, c, log); err != nil {
				return nil, err
			}
		case article.ContentTable:
			if err := addTable(d, c.Value); err != nil {
				return nil, err
			}
		}
	}

	return d, nil
}

// applyPageDecorations copies the configured running header and footer onto
// the document.
func applyPageDecorations(d *hwpx.Document, cfg *config.DocumentConfig) {
	if cfg.PageHeader.Enable {
		d.AddPageHeader(hwpx.HeaderFooter{
			Text:    cfg.PageHeader.Text,
			ApplyTo: cfg.PageHeader.ApplyTo,
		})
	}
	if cfg.PageFooter.Enable {
		d.AddPageFooter(hwpx.HeaderFooter{
			Text:        cfg.PageFooter.Text,
			ApplyTo:     cfg.PageFooter.ApplyTo,
			PageNumbers: cfg.PageFooter.PageNumbers,
			NumberFmt:   cfg.PageFooter.NumberFormat,
		})
	}
}

// addMetadataBlock renders the article metadata above the body: one
// "label: value" paragraph per selected field, a separator line and a blank
// paragraph. Fields without a value are skipped.
func addMetadataBlock(d *hwpx.Document, e *article.Envelope) {
	art := &e.Data.Article
	values := map[string]string{
		"subject":     art.Subject,
		"regEmpName":  art.RegEmpName,
		"regDeptName": art.RegDeptName,
		"regDt":       art.RegDt,
	}

	bold := hwpx.TextStyle{Bold: true}
	for _, f := range metadataFields {
		if !e.Options.WantField(f.key) {
			continue
		}
		v := values[f.key]
		if v == "" {
			continue
		}
		d.AddMixedParagraph([]hwpx.StyledText{
			{Text: f.label + ": ", Style: bold},
			{Text: v},
		})
	}

	d.AddParagraph(separatorLine)
	d.AddParagraph("")
}

// addTextParagraphs splits the value on newlines, one paragraph per line, so
// a double newline produces a blank paragraph.
func addTextParagraphs(d *hwpx.Document, value string) {
	for _, line := range strings.Split(value, "\n") {
		d.AddParagraph(line)
	}
}

// addImage loads, normalizes and attaches an image content item. An inline
// base64 payload wins over a url reference, an item carrying neither is
// skipped with a warning.
func addImage(ctx context.Context, d *hwpx.Document, loader *media.Loader, c *article.Content, log *zap.Logger) error {
	var (
		data []byte
		err  error
	)
	switch {
	case c.Base64 != "":
		if data, err = media.Inline(c.Base64); err != nil {
			return failConversion("%w", err)
		}
		if data, err = media.NormalizeFormat(data, c.Format); err != nil {
			return failConversion("inline image: %w", err)
		}
	case c.URL != "":
		if data, err = loader.Load(ctx, c.URL); err != nil {
			return failConversion("%w", err)
		}
		if data, err = media.Normalize(data, c.URL); err != nil {
			return failConversion("image %s: %w", c.URL, err)
		}
	default:
		log.Warn("Image content without url or base64 payload, skipping")
		return nil
	}

	img, ok := hwpx.ImageFromBytes(data)
	if !ok {
		if c.Base64 != "" {
			return failConversion("unrecognized inline image format")
		}
		return failConversion("unsupported image format: %s", c.URL)
	}

	d.AddImage(img)
	return nil
}

// addTable composes the markup into a grid and attaches it.
func addTable(d *hwpx.Document, markup string) error {
	g, err := htmltable.Compose(markup)
	if err != nil {
		return failConversion("unable to compose table: %w", err)
	}
	d.AddTable(g)
	return nil
}
