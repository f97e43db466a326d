package convert

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"github.com/HC-ProductTech/hwpers/article"
	"github.com/HC-ProductTech/hwpers/config"
)

// Values is a struct that holds variables we make available for template expansion
type Values struct {
	Context    string
	ArticleID  string
	Subject    string
	Creator    string
	Author     string
	Department string
	Date       string
	SourceFile string
}

func expandTemplate(art *article.Article, name config.TemplateFieldName, field, srcName string) (string, error) {
	funcMap := sprig.FuncMap()

	tmpl, err := template.New(string(name)).Funcs(funcMap).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	values := Values{
		Context:    string(name),
		ArticleID:  strings.TrimSpace(art.AtclID),
		Subject:    art.Subject,
		Creator:    art.Creator(),
		Author:     art.RegEmpName,
		Department: art.RegDeptName,
		Date:       art.RegDt,
		SourceFile: strings.TrimSuffix(filepath.Base(srcName), filepath.Ext(srcName)),
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
