package convert

import (
	"strings"
	"testing"

	"github.com/HC-ProductTech/hwpers/article"
	"github.com/HC-ProductTech/hwpers/config"
)

func templateArticle() *article.Article {
	return &article.Article{
		AtclID:      "A2025-0001",
		Subject:     "돌봄 정책 브리핑",
		RegDt:       "2025-01-24",
		RegEmpName:  "홍길동",
		RegDeptName: "정책기획부",
	}
}

func TestExpandTemplate_SimpleText(t *testing.T) {
	result, err := expandTemplate(templateArticle(), config.OutputNameTemplateFieldName, "simple-text", "article.json")
	if err != nil {
		t.Fatalf("expandTemplate() error = %v", err)
	}
	if result != "simple-text" {
		t.Errorf("expandTemplate() = %q, want %q", result, "simple-text")
	}
}

func TestExpandTemplate_Fields(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		expected string
	}{
		{"article id", "{{ .ArticleID }}", "A2025-0001"},
		{"subject", "{{ .Subject }}", "돌봄 정책 브리핑"},
		{"creator", "{{ .Creator }}", "홍길동 (정책기획부)"},
		{"author", "{{ .Author }}", "홍길동"},
		{"department", "{{ .Department }}", "정책기획부"},
		{"date", "{{ .Date }}", "2025-01-24"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := expandTemplate(templateArticle(), config.OutputNameTemplateFieldName, tt.field, "article.json")
			if err != nil {
				t.Fatalf("expandTemplate() error = %v", err)
			}
			if result != tt.expected {
				t.Errorf("expandTemplate() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestExpandTemplate_SourceFile(t *testing.T) {
	result, err := expandTemplate(templateArticle(), config.OutputNameTemplateFieldName, "{{ .SourceFile }}", "path/to/article-42.json")
	if err != nil {
		t.Fatalf("expandTemplate() error = %v", err)
	}
	if result != "article-42" {
		t.Errorf("expandTemplate() = %q, want %q", result, "article-42")
	}
}

func TestExpandTemplate_TrimsArticleID(t *testing.T) {
	art := templateArticle()
	art.AtclID = "  A2025-0001\n"

	result, err := expandTemplate(art, config.OutputNameTemplateFieldName, "{{ .ArticleID }}", "article.json")
	if err != nil {
		t.Fatalf("expandTemplate() error = %v", err)
	}
	if result != "A2025-0001" {
		t.Errorf("expandTemplate() = %q, want %q", result, "A2025-0001")
	}
}

func TestExpandTemplate_ComplexTemplate(t *testing.T) {
	template := "{{ .Department }}/{{ .Date }} - {{ .ArticleID }}"
	result, err := expandTemplate(templateArticle(), config.OutputNameTemplateFieldName, template, "article.json")
	if err != nil {
		t.Fatalf("expandTemplate() error = %v", err)
	}

	expected := "정책기획부/2025-01-24 - A2025-0001"
	if result != expected {
		t.Errorf("expandTemplate() = %q, want %q", result, expected)
	}
}

func TestExpandTemplate_SprigFunctions(t *testing.T) {
	art := templateArticle()
	art.AtclID = "a2025-0001"

	result, err := expandTemplate(art, config.OutputNameTemplateFieldName, "{{ .ArticleID | upper }}", "article.json")
	if err != nil {
		t.Fatalf("expandTemplate() error = %v", err)
	}
	if result != "A2025-0001" {
		t.Errorf("expandTemplate() = %q, want %q", result, "A2025-0001")
	}
}

func TestExpandTemplate_InvalidTemplate(t *testing.T) {
	_, err := expandTemplate(templateArticle(), config.OutputNameTemplateFieldName, "{{ .Subject", "article.json")
	if err == nil {
		t.Error("expandTemplate() expected error for invalid template, got nil")
	}
}

func TestExpandTemplate_InvalidField(t *testing.T) {
	_, err := expandTemplate(templateArticle(), config.OutputNameTemplateFieldName, "{{ .NonExistentField }}", "article.json")
	if err == nil {
		t.Error("expandTemplate() expected error for invalid field, got nil")
	}
}

func TestExpandTemplate_PathSeparators(t *testing.T) {
	result, err := expandTemplate(templateArticle(), config.OutputNameTemplateFieldName, "{{ .Department }}/{{ .Subject }}", "article.json")
	if err != nil {
		t.Fatalf("expandTemplate() error = %v", err)
	}

	// Should contain forward slash for path separation
	if !strings.Contains(result, "/") {
		t.Errorf("expandTemplate() = %q, want to contain /", result)
	}
}
