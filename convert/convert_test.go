package convert

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/disintegration/imaging"
	"go.uber.org/zap/zaptest"

	"github.com/HC-ProductTech/hwpers/article"
	"github.com/HC-ProductTech/hwpers/config"
	"github.com/HC-ProductTech/hwpers/htmltable"
	"github.com/HC-ProductTech/hwpers/hwpx"
	"github.com/HC-ProductTech/hwpers/media"
)

func testArticle(contents ...article.Content) *article.Envelope {
	return &article.Envelope{
		ResponseCode: "0",
		Data: article.Data{Article: article.Article{
			AtclID:      "A2025-0001",
			Subject:     "돌봄 정책 브리핑",
			RegDt:       "2025-01-24",
			RegEmpName:  "홍길동",
			RegDeptName: "정책기획부",
			Contents:    contents,
		}},
	}
}

func buildTestDocument(t *testing.T, e *article.Envelope) *hwpx.Document {
	t.Helper()

	d, err := Build(context.Background(), e, nil, &config.DocumentConfig{}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("failed to build document: %v", err)
	}
	return d
}

func paragraphTexts(d *hwpx.Document) []string {
	texts := make([]string, 0, len(d.Sections[0].Paragraphs))
	for _, p := range d.Sections[0].Paragraphs {
		texts = append(texts, p.Text)
	}
	return texts
}

func assertTexts(t *testing.T, d *hwpx.Document, want []string) {
	t.Helper()

	got := paragraphTexts(d)
	if len(got) != len(want) {
		t.Fatalf("wrong paragraph count: got %d %q, want %d %q", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("paragraph %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func encodeTestPNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			img.Set(x, y, color.RGBA{R: 30, G: 90, B: 160, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		t.Fatalf("failed to encode test PNG: %v", err)
	}
	return buf.Bytes()
}

// TestBuildMetadata checks that article attributes end up in the package
// level document properties.
func TestBuildMetadata(t *testing.T) {
	d := buildTestDocument(t, testArticle(article.Content{Type: article.ContentText, Value: "본문"}))

	if d.Meta.Title != "돌봄 정책 브리핑" {
		t.Errorf("wrong title: %q", d.Meta.Title)
	}
	if d.Meta.Creator != "홍길동 (정책기획부)" {
		t.Errorf("wrong creator: %q", d.Meta.Creator)
	}
	if d.Meta.Created != "2025-01-24" {
		t.Errorf("wrong creation date: %q", d.Meta.Created)
	}
}

// TestBuildTextLines checks that a text item is split on newlines, one
// paragraph per line, keeping blank lines as empty paragraphs.
func TestBuildTextLines(t *testing.T) {
	d := buildTestDocument(t, testArticle(
		article.Content{Type: article.ContentText, Value: "첫 줄\n둘째 줄\n\n넷째 줄"},
	))

	assertTexts(t, d, []string{"첫 줄", "둘째 줄", "", "넷째 줄"})
}

// TestBuildSeparatesContentItems checks the empty paragraph inserted between
// consecutive content items, but not before the first one.
func TestBuildSeparatesContentItems(t *testing.T) {
	d := buildTestDocument(t, testArticle(
		article.Content{Type: article.ContentText, Value: "하나"},
		article.Content{Type: article.ContentText, Value: "둘"},
		article.Content{Type: article.ContentText, Value: "셋"},
	))

	assertTexts(t, d, []string{"하나", "", "둘", "", "셋"})
}

// TestBuildHeaderBlock checks the metadata block: labeled rows in fixed
// order, bold labels, a separator line and a blank paragraph before the
// body.
func TestBuildHeaderBlock(t *testing.T) {
	e := testArticle(article.Content{Type: article.ContentText, Value: "본문"})
	e.Options.IncludeHeader = true

	d := buildTestDocument(t, e)
	assertTexts(t, d, []string{
		"제목: 돌봄 정책 브리핑",
		"작성자: 홍길동",
		"부서: 정책기획부",
		"작성일: 2025-01-24",
		separatorLine,
		"",
		"본문",
	})

	row := d.Sections[0].Paragraphs[0]
	if len(row.Runs) != 2 {
		t.Fatalf("wrong run count in header row: %d", len(row.Runs))
	}
	if row.Runs[0].Offset != 0 {
		t.Errorf("label run does not start the paragraph: offset %d", row.Runs[0].Offset)
	}
	// The value run starts right after "제목: ", offsets count characters.
	if row.Runs[1].Offset != 4 {
		t.Errorf("wrong value run offset: got %d, want 4", row.Runs[1].Offset)
	}
	if row.Runs[0].ShapeID == row.Runs[1].ShapeID {
		t.Error("label and value share one character shape")
	}
}

// TestBuildHeaderFieldFilter checks that headerFields limits the block to
// the requested fields while keeping the fixed row order.
func TestBuildHeaderFieldFilter(t *testing.T) {
	e := testArticle(article.Content{Type: article.ContentText, Value: "본문"})
	e.Options.IncludeHeader = true
	e.Options.HeaderFields = []string{"regDt", "subject"}

	d := buildTestDocument(t, e)
	assertTexts(t, d, []string{
		"제목: 돌봄 정책 브리핑",
		"작성일: 2025-01-24",
		separatorLine,
		"",
		"본문",
	})
}

// TestBuildHeaderSkipsBlankValues checks that fields without a value do not
// produce a row.
func TestBuildHeaderSkipsBlankValues(t *testing.T) {
	e := testArticle(article.Content{Type: article.ContentText, Value: "본문"})
	e.Options.IncludeHeader = true
	e.Data.Article.RegDeptName = ""

	d := buildTestDocument(t, e)
	assertTexts(t, d, []string{
		"제목: 돌봄 정책 브리핑",
		"작성자: 홍길동",
		"작성일: 2025-01-24",
		separatorLine,
		"",
		"본문",
	})
}

// TestBuildEmptyContents checks that an article without contents still
// produces a document, just an empty one.
func TestBuildEmptyContents(t *testing.T) {
	d := buildTestDocument(t, testArticle())

	if got := len(d.Sections[0].Paragraphs); got != 0 {
		t.Errorf("empty article produced %d paragraphs", got)
	}
}

// TestBuildInlineImage checks the base64 image path: decoded, recognized and
// attached with the first binary entry index.
func TestBuildInlineImage(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString(encodeTestPNG(t, 8, 6))

	d := buildTestDocument(t, testArticle(
		article.Content{Type: article.ContentImage, Base64: payload, Format: "png"},
	))

	paras := d.Sections[0].Paragraphs
	if len(paras) != 1 {
		t.Fatalf("wrong paragraph count: %d", len(paras))
	}
	att, ok := paras[0].Attach.(*hwpx.ImageAttachment)
	if !ok {
		t.Fatalf("expected an image attachment, got %T", paras[0].Attach)
	}
	if att.Seq != 1 {
		t.Errorf("wrong binary entry index: %d", att.Seq)
	}
	if att.Image.Format != hwpx.ImageFormatPng {
		t.Errorf("wrong image format: %s", att.Image.Format)
	}
}

// TestBuildInlineImageWinsOverURL checks that an item carrying both payload
// kinds uses the inline one, nothing is downloaded.
func TestBuildInlineImageWinsOverURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected download of %s", r.URL.Path)
	}))
	defer srv.Close()

	log := zaptest.NewLogger(t)
	loader := media.NewLoader(t.TempDir(), &config.FetchConfig{TimeoutSec: 5}, log)
	payload := base64.StdEncoding.EncodeToString(encodeTestPNG(t, 4, 4))

	e := testArticle(article.Content{
		Type:   article.ContentImage,
		URL:    srv.URL + "/chart.png",
		Base64: payload,
	})
	d, err := Build(context.Background(), e, loader, &config.DocumentConfig{}, log)
	if err != nil {
		t.Fatalf("failed to build document: %v", err)
	}
	if _, ok := d.Sections[0].Paragraphs[0].Attach.(*hwpx.ImageAttachment); !ok {
		t.Error("inline image was not attached")
	}
}

// TestBuildRemoteImage checks the url image path through the loader.
func TestBuildRemoteImage(t *testing.T) {
	png := encodeTestPNG(t, 10, 10)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(png)
	}))
	defer srv.Close()

	log := zaptest.NewLogger(t)
	loader := media.NewLoader(t.TempDir(), &config.FetchConfig{TimeoutSec: 5}, log)

	e := testArticle(article.Content{Type: article.ContentImage, URL: srv.URL + "/chart.png"})
	d, err := Build(context.Background(), e, loader, &config.DocumentConfig{}, log)
	if err != nil {
		t.Fatalf("failed to build document: %v", err)
	}

	att, ok := d.Sections[0].Paragraphs[0].Attach.(*hwpx.ImageAttachment)
	if !ok {
		t.Fatalf("expected an image attachment, got %T", d.Sections[0].Paragraphs[0].Attach)
	}
	if !bytes.Equal(att.Image.Data, png) {
		t.Error("attached image data differs from the served bytes")
	}
}

// TestBuildImageWithoutPayload checks that an image item with neither url
// nor base64 is skipped while the item separator still applies.
func TestBuildImageWithoutPayload(t *testing.T) {
	d := buildTestDocument(t, testArticle(
		article.Content{Type: article.ContentText, Value: "본문"},
		article.Content{Type: article.ContentImage},
		article.Content{Type: article.ContentText, Value: "끝"},
	))

	assertTexts(t, d, []string{"본문", "", "", "끝"})
	for i, p := range d.Sections[0].Paragraphs {
		if p.Attach != nil {
			t.Errorf("paragraph %d unexpectedly carries an attachment", i)
		}
	}
}

// TestBuildInlineImageBadData checks that undecodable image bytes fail the
// conversion with the conversion kind.
func TestBuildInlineImageBadData(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("certainly not an image"))

	e := testArticle(article.Content{Type: article.ContentImage, Base64: payload})
	_, err := Build(context.Background(), e, nil, &config.DocumentConfig{}, zaptest.NewLogger(t))
	if err == nil {
		t.Fatal("expected an error for undecodable image bytes")
	}

	var cerr *Error
	if !errors.As(err, &cerr) || cerr.Kind != KindConversion {
		t.Errorf("wrong error classification: %v", err)
	}
}

// TestBuildTable checks that table markup is composed into a grid
// attachment.
func TestBuildTable(t *testing.T) {
	d := buildTestDocument(t, testArticle(article.Content{
		Type:  article.ContentTable,
		Value: `<table><tr><th colspan="2">구분</th></tr><tr><td>가</td><td>나</td></tr></table>`,
	}))

	paras := d.Sections[0].Paragraphs
	if len(paras) != 1 {
		t.Fatalf("wrong paragraph count: %d", len(paras))
	}
	att, ok := paras[0].Attach.(*hwpx.TableAttachment)
	if !ok {
		t.Fatalf("expected a table attachment, got %T", paras[0].Attach)
	}
	if att.Grid.Rows != 2 || att.Grid.Cols != 2 {
		t.Errorf("wrong grid dimensions: %dx%d", att.Grid.Rows, att.Grid.Cols)
	}
	if att.Seq != 1 {
		t.Errorf("wrong table sequence: %d", att.Seq)
	}
}

// TestBuildTableWithoutRows checks that markup without any table rows fails
// the conversion.
func TestBuildTableWithoutRows(t *testing.T) {
	e := testArticle(article.Content{Type: article.ContentTable, Value: "<p>표가 아닙니다</p>"})
	_, err := Build(context.Background(), e, nil, &config.DocumentConfig{}, zaptest.NewLogger(t))
	if err == nil {
		t.Fatal("expected an error for markup without rows")
	}
	if !errors.Is(err, htmltable.ErrNoRows) {
		t.Errorf("cause lost in classification: %v", err)
	}

	var cerr *Error
	if !errors.As(err, &cerr) || cerr.Kind != KindConversion {
		t.Errorf("wrong error classification: %v", err)
	}
}

// TestBuildPageDecorations checks that the configured running header and
// footer are copied onto the document.
func TestBuildPageDecorations(t *testing.T) {
	cfg := &config.DocumentConfig{
		PageHeader: config.PageHeaderConfig{Enable: true, Text: "기관 내부 자료", ApplyTo: config.ApplyToBoth},
		PageFooter: config.PageFooterConfig{Enable: true, PageNumbers: true, NumberFormat: config.PageNumFmtDigit},
	}

	e := testArticle(article.Content{Type: article.ContentText, Value: "본문"})
	d, err := Build(context.Background(), e, nil, cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("failed to build document: %v", err)
	}

	if len(d.Headers) != 1 || d.Headers[0].Text != "기관 내부 자료" {
		t.Errorf("wrong page headers: %+v", d.Headers)
	}
	if len(d.Footers) != 1 || !d.Footers[0].PageNumbers {
		t.Errorf("wrong page footers: %+v", d.Footers)
	}
}

// TestBuildCanceledContext checks that a canceled context stops the build.
func TestBuildCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := testArticle(article.Content{Type: article.ContentText, Value: "본문"})
	if _, err := Build(ctx, e, nil, &config.DocumentConfig{}, zaptest.NewLogger(t)); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
