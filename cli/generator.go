package cli

import (
	"bufio"
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/jinzhu/inflection"

	"github.com/hakuorm/haku/schema"
)

// FieldInfo attribute of a generated model, `name:type`
type FieldInfo struct {
	Name string
	Type string
}

// ModelOptions model scaffolding request
type ModelOptions struct {
	Name       string
	Fields     []FieldInfo
	Relations  []RelationInfo
	BaseFolder string
	// Now timestamp of the migration file name, time.Now when nil
	Now func() time.Time
}

// Generated files written by GenerateModel
type Generated struct {
	Model     string
	Migration string
}

var modelTemplate = template.Must(template.New("model").Parse(`package models

import (
	"time"

	"github.com/hakuorm/haku/schema"
)

type {{.Name}} struct {
	ID int64
{{- range .Fields}}
	{{.GoName}} {{.GoType}}
{{- end}}
	CreatedAt *time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
}

func (m *{{.Name}}) Declare(d *schema.Declaration) {
	d.Entity("{{.Name}}", "{{.Table}}")
	d.Field("id", &m.ID).PrimaryKey().ReadOnly()
{{- range .Fields}}
	d.Field("{{.Name}}", &m.{{.GoName}}){{.Rules}}
{{- end}}
	d.Field("createdAt", &m.CreatedAt).Timestamp()
	d.Field("updatedAt", &m.UpdatedAt).Timestamp()
	d.Field("deletedAt", &m.DeletedAt).Timestamp()
{{- range .Relations}}
	{{.Declaration}}
{{- end}}
}
`))

var migrationTemplate = template.Must(template.New("migration").Parse(`package migrations

import (
	"{{.Module}}/internal/models"
	"github.com/hakuorm/haku/migrator"
)

func init() {
	register(func(g migrator.MigrationGenerator) (migrator.Migration, error) {
		return g.Generate(&models.{{.Name}}{})
	})
}
`))

type modelField struct {
	FieldInfo
	GoName string
	GoType string
	Rules  string
}

// GenerateModel write the model declaration and its create table migration under BaseFolder
func GenerateModel(opts ModelOptions) (Generated, error) {
	if opts.Name == "" || len(opts.Fields) == 0 {
		return Generated{}, fmt.Errorf("model name and fields must be provided")
	}
	if opts.BaseFolder == "" {
		opts.BaseFolder = "."
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	name := schema.ToStudly(opts.Name)
	table := inflection.Plural(schema.ToDBName(name))

	fields := make([]modelField, 0, len(opts.Fields))
	for _, field := range opts.Fields {
		goType, rules, err := mapType(field.Type)
		if err != nil {
			return Generated{}, fmt.Errorf("field %s: %w", field.Name, err)
		}
		fields = append(fields, modelField{
			FieldInfo: FieldInfo{Name: schema.ToCamel(field.Name), Type: field.Type},
			GoName:    schema.ToStudly(field.Name),
			GoType:    goType,
			Rules:     rules,
		})
	}

	module, err := moduleName(opts.BaseFolder)
	if err != nil {
		return Generated{}, err
	}

	generated := Generated{
		Model: filepath.Join(opts.BaseFolder, "internal", "models", schema.ToDBName(name)+".go"),
		Migration: filepath.Join(opts.BaseFolder, "internal", "migrations",
			opts.Now().Format("20060102_150405")+"_create_"+schema.ToDBName(name)+".go"),
	}

	err = render(generated.Model, modelTemplate, map[string]any{
		"Name":      name,
		"Table":     table,
		"Fields":    fields,
		"Relations": opts.Relations,
	})
	if err != nil {
		return Generated{}, err
	}

	err = render(generated.Migration, migrationTemplate, map[string]any{"Module": module, "Name": name})
	if err != nil {
		return Generated{}, err
	}
	return generated, nil
}

func render(filename string, tmpl *template.Template, data any) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return err
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return fmt.Errorf("format %s: %w", filename, err)
	}
	if err := os.MkdirAll(filepath.Dir(filename), os.ModePerm); err != nil {
		return err
	}
	return os.WriteFile(filename, src, 0o644)
}

// mapType Go type and declaration suffix of an attribute type
func mapType(t string) (goType string, rules string, err error) {
	switch t {
	case "string":
		return "string", `.Rules("required", "len:..255")`, nil
	case "text":
		return "string", `.ColumnType("TEXT NOT NULL")`, nil
	case "email":
		return "string", `.Rules("required", "emailAddress", "unique")`, nil
	case "int":
		return "int", "", nil
	case "bigint":
		return "int64", "", nil
	case "float":
		return "float64", "", nil
	case "bool":
		return "bool", "", nil
	case "time":
		return "*time.Time", "", nil
	case "json":
		return "map[string]any", "", nil
	case "point":
		return "schema.Point", ".Spatial()", nil
	}
	return "", "", fmt.Errorf("unknown attribute type %q", t)
}

// ParseFields parse `name:type,name:type` attributes
func ParseFields(attr string) ([]FieldInfo, error) {
	var fields []FieldInfo
	for _, a := range strings.Split(attr, ",") {
		parts := strings.Split(strings.TrimSpace(a), ":")
		if len(parts) != 2 || parts[0] == "" {
			return nil, fmt.Errorf("attribute format is invalid: %q", a)
		}
		fields = append(fields, FieldInfo{Name: parts[0], Type: parts[1]})
	}
	return fields, nil
}

func moduleName(baseFolder string) (string, error) {
	file, err := os.Open(filepath.Join(baseFolder, "go.mod"))
	if err != nil {
		return "", fmt.Errorf("cannot open go.mod: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if module, ok := strings.CutPrefix(line, "module "); ok {
			return strings.Trim(strings.TrimSpace(module), `"`), nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("error reading go.mod: %w", err)
	}
	return "", fmt.Errorf("module name not found in go.mod")
}
