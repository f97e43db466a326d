// Package article defines the inbound document contract: a CMS export
// envelope carrying a single article with ordered content items.
package article

import (
	"errors"
	"fmt"
	"strings"
)

// Content item kinds as they appear in the "type" tag.
const (
	ContentText  = "text"
	ContentImage = "image"
	ContentTable = "table"
)

// Envelope is the top level structure of the exported payload. Conversion is
// allowed only when ResponseCode is "0".
type Envelope struct {
	ResponseCode string  `json:"responseCode"`
	ResponseText string  `json:"responseText"`
	Options      Options `json:"options"`
	Data         Data    `json:"data"`
}

// Options control presentation details requested by the exporting side.
type Options struct {
	IncludeHeader bool     `json:"includeHeader"`
	HeaderFields  []string `json:"headerFields"`
}

type Data struct {
	Article Article `json:"article"`
}

// Article carries document metadata and the ordered body items.
type Article struct {
	AtclID      string    `json:"atclId"`
	Subject     string    `json:"subject"`
	Contents    []Content `json:"contents"`
	RegDt       string    `json:"regDt"`
	RegEmpName  string    `json:"regEmpName"`
	RegDeptName string    `json:"regDeptName"`
}

// Content is a single body item tagged by Type. Only the fields relevant to
// the tag are expected to be present, everything else stays empty.
type Content struct {
	Type   string `json:"type"`
	Value  string `json:"value"`
	URL    string `json:"url"`
	Base64 string `json:"base64"`
	Format string `json:"format"`
}

// Validate checks the envelope preconditions: successful response code, a
// non-blank article id and recognizable content tags. Everything else is
// treated permissively.
func (e *Envelope) Validate() error {
	if e.ResponseCode != "0" {
		return fmt.Errorf("responseCode is not '0': code=%q, text=%q", e.ResponseCode, e.ResponseText)
	}
	if strings.TrimSpace(e.Data.Article.AtclID) == "" {
		return errors.New("article id (atclId) is empty")
	}
	for i, c := range e.Data.Article.Contents {
		switch c.Type {
		case ContentText, ContentImage, ContentTable:
		default:
			return fmt.Errorf("contents[%d]: unknown type %q", i, c.Type)
		}
	}
	return nil
}

// Creator builds the document creator string from the registering employee
// and department names.
func (a *Article) Creator() string {
	switch {
	case a.RegEmpName == "":
		return ""
	case a.RegDeptName == "":
		return a.RegEmpName
	default:
		return a.RegEmpName + " (" + a.RegDeptName + ")"
	}
}

// WantField reports whether the metadata field should be rendered in the
// document header block. An empty filter list means every field.
func (o *Options) WantField(name string) bool {
	if len(o.HeaderFields) == 0 {
		return true
	}
	for _, f := range o.HeaderFields {
		if f == name {
			return true
		}
	}
	return false
}
