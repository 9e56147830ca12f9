package web

import (
	"embed"
	"html/template"
	"io/fs"
	"strings"
	"sync"
	"time"

	"github.com/ikkim/marketing-survey/internal/app/model"
	"github.com/microcosm-cc/bluemonday"
)

//go:embed templates/pages/*.html
var pageFS embed.FS

//go:embed templates/mail/*.html
var mailFS embed.FS

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

func strictPolicy() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}

// nl2br strips markup from free text and keeps its line breaks.
func nl2br(s string) template.HTML {
	cleaned := strictPolicy().Sanitize(strings.ReplaceAll(s, "\r\n", "\n"))
	return template.HTML(strings.ReplaceAll(cleaned, "\n", "<br>"))
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "false", "0", "off", "no":
		return false
	}
	return true
}

// Funcs 페이지와 메일 템플릿이 공유하는 함수
func Funcs(loc *time.Location) template.FuncMap {
	if loc == nil {
		loc = time.UTC
	}
	return template.FuncMap{
		"nl2br":   nl2br,
		"checked": truthy,
		"display": func(s *model.SurveyResponse, f model.FieldSpec) string { return s.Display(f) },
		"isBool":  func(f model.FieldSpec) bool { return f.Kind == model.KindCheckbox },
		"isText":  func(f model.FieldSpec) bool { return f.Kind == model.KindTextarea },
		"boolOf": func(s *model.SurveyResponse, f model.FieldSpec) bool {
			v, _ := s.Field(f.Name)
			b, _ := v.(bool)
			return b
		},
		"localtime": func(t time.Time) string { return t.In(loc).Format("2006-01-02 15:04") },
	}
}

// PageTemplates parses the public page templates for gin's HTML renderer.
func PageTemplates() *template.Template {
	return template.Must(template.New("pages").Funcs(Funcs(nil)).ParseFS(pageFS, "templates/pages/*.html"))
}

// MailTemplates parses mail bodies; times render in loc.
func MailTemplates(loc *time.Location) *template.Template {
	return template.Must(template.New("mail").Funcs(Funcs(loc)).ParseFS(mailFS, "templates/mail/*.html"))
}

func PagesFS() fs.FS {
	return pageFS
}
