package migrations

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"
)

// YAMLTemplate is the scaffold written by "revmig revision new"
const YAMLTemplate = `id: {{.ID}}
revises: {{if .Revises}}{{.Revises}}{{else}}null{{end}}
description: {{printf "%q" .Description}}
created_at: {{.CreatedAt.UTC.Format "2006-01-02T15:04:05Z07:00"}}
apply:
  - SELECT 1
revert:
  - SELECT 1
`

// SQLUpTemplate and SQLDownTemplate are the scaffold for "revmig revision new --sql"
const SQLUpTemplate = `-- revision: {{.ID}}
-- revises: {{if .Revises}}{{.Revises}}{{else}}none{{end}}
-- description: {{.Description}}
-- created_at: {{.CreatedAt.UTC.Format "2006-01-02T15:04:05Z07:00"}}

SELECT 1;
`

const SQLDownTemplate = `-- revert {{.ID}}

SELECT 1;
`

// TemplateData holds the values rendered into a revision scaffold
type TemplateData struct {
	ID          string
	Revises     string
	Description string
	CreatedAt   time.Time
}

var (
	yamlTmpl    = template.Must(template.New("yaml").Parse(YAMLTemplate))
	sqlUpTmpl   = template.Must(template.New("sql_up").Parse(SQLUpTemplate))
	sqlDownTmpl = template.Must(template.New("sql_down").Parse(SQLDownTemplate))

	slugRegex = regexp.MustCompile(`[^a-z0-9]+`)
)

// NewRevisionID returns a random 12 character hex revision id
func NewRevisionID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// Slug turns a description into a file name fragment
func Slug(description string) string {
	slug := strings.Trim(slugRegex.ReplaceAllString(strings.ToLower(description), "_"), "_")
	if len(slug) > 40 {
		slug = strings.TrimRight(slug[:40], "_")
	}
	return slug
}

// FileBase returns "<id>_<slug>", or just the id when the description is empty
func (d TemplateData) FileBase() string {
	if slug := Slug(d.Description); slug != "" {
		return d.ID + "_" + slug
	}
	return d.ID
}

// RenderYAML renders the YAML revision scaffold
func RenderYAML(data TemplateData) ([]byte, error) {
	return render(yamlTmpl, data)
}

// RenderSQL renders the up and down SQL revision scaffold
func RenderSQL(data TemplateData) (up, down []byte, err error) {
	if up, err = render(sqlUpTmpl, data); err != nil {
		return nil, nil, err
	}
	if down, err = render(sqlDownTmpl, data); err != nil {
		return nil, nil, err
	}
	return up, down, nil
}

func render(tmpl *template.Template, data TemplateData) ([]byte, error) {
	if data.ID == "" {
		return nil, fmt.Errorf("revision id is required")
	}
	if data.CreatedAt.IsZero() {
		data.CreatedAt = time.Now()
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}
	return buf.Bytes(), nil
}
