package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"

	"tstbuild/internal/catalog"
	"tstbuild/internal/color"
	"tstbuild/internal/descriptor"
	"tstbuild/internal/validation"
)

// OutputFormat represents the output format for CLI commands
type OutputFormat string

const (
	OutputFormatTable OutputFormat = "table"
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatYAML  OutputFormat = "yaml"
)

// ParseOutputFormat validates a format name from a flag or the config.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case OutputFormatTable, OutputFormatJSON, OutputFormatYAML:
		return f, nil
	case "":
		return OutputFormatTable, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", s)
	}
}

// Renderer writes command results in one output format.
type Renderer struct {
	out    io.Writer
	format OutputFormat
}

// NewRenderer creates a renderer writing to out.
func NewRenderer(out io.Writer, format OutputFormat) *Renderer {
	return &Renderer{out: out, format: format}
}

// Format returns the renderer's output format.
func (r *Renderer) Format() OutputFormat { return r.format }

// CommandView is the structured form of a catalog definition.
type CommandView struct {
	ID    int      `json:"command" yaml:"command"`
	Name  string   `json:"name" yaml:"name"`
	Key   string   `json:"key" yaml:"key"`
	Args  []string `json:"args,omitempty" yaml:"args,omitempty"`
	Reply string   `json:"reply,omitempty" yaml:"reply,omitempty"`
}

// FieldView is one value-bearing field of a definition.
type FieldView struct {
	Name   string `json:"name" yaml:"name"`
	Type   string `json:"type" yaml:"type"`
	Size   int    `json:"size" yaml:"size"`
	Struct bool   `json:"struct,omitempty" yaml:"struct,omitempty"`
}

// DescriptorView is the structured form of a parsed descriptor.
type DescriptorView struct {
	Raw    string           `json:"raw,omitempty" yaml:"raw,omitempty"`
	Name   string           `json:"name" yaml:"name"`
	Type   string           `json:"type" yaml:"type"`
	Size   int              `json:"size" yaml:"size"`
	Fields []DescriptorView `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// DescribeView is the structured form of a definition with its fields.
type DescribeView struct {
	CommandView `yaml:",inline"`
	Label       string      `json:"label" yaml:"label"`
	Fields      []FieldView `json:"fields" yaml:"fields"`
	ReplyType   string      `json:"replyType,omitempty" yaml:"replyType,omitempty"`
	ReplySize   int         `json:"replySize,omitempty" yaml:"replySize,omitempty"`
}

// NewCommandView converts a definition.
func NewCommandView(def *catalog.Definition) CommandView {
	view := CommandView{ID: def.ID, Name: def.Name, Key: def.Key(), Args: def.Args}
	if len(def.Reply) > 0 {
		view.Reply = def.Reply[0]
	}
	return view
}

// NewDescribeView converts a definition and its flattened fields.
func NewDescribeView(def *catalog.Definition) DescribeView {
	view := DescribeView{CommandView: NewCommandView(def), Label: def.DisplayName(), Fields: []FieldView{}}
	for _, arg := range def.ParsedArgs {
		for _, field := range arg.Flatten() {
			view.Fields = append(view.Fields, FieldView{
				Name:   field.Name,
				Type:   field.Label(),
				Size:   field.Size,
				Struct: arg.IsStruct(),
			})
		}
	}
	if def.ParsedReply != nil {
		view.ReplyType = def.ParsedReply.Label()
		view.ReplySize = def.ParsedReply.Size
	}
	return view
}

// NewDescriptorView converts a parsed descriptor.
func NewDescriptorView(raw string, d descriptor.Descriptor) DescriptorView {
	view := DescriptorView{Raw: raw, Name: d.Name, Type: d.Label(), Size: d.Size}
	for _, field := range d.Fields {
		view.Fields = append(view.Fields, NewDescriptorView("", field))
	}
	return view
}

// Catalog lists every definition of cat.
func (r *Renderer) Catalog(cat *catalog.Catalog) error {
	views := make([]CommandView, 0, cat.Len())
	for _, def := range cat.Commands() {
		views = append(views, NewCommandView(def))
	}
	if r.format != OutputFormatTable {
		return r.structured(views)
	}

	if len(views) == 0 {
		fmt.Fprintln(r.out, text.FgYellow.Sprint("No commands found"))
		return nil
	}

	t := r.newTable("ID", "NAME", "KEY", "ARGS", "REPLY")
	for _, v := range views {
		t.AppendRow(table.Row{v.ID, v.Name, v.Key, dash(strings.Join(v.Args, ", ")), dash(v.Reply)})
	}
	t.Render()
	fmt.Fprintf(r.out, "\n%s %d commands\n", text.FgHiBlue.Sprint("Total:"), len(views))
	return nil
}

// Definition shows one definition with its flattened fields.
func (r *Renderer) Definition(def *catalog.Definition) error {
	view := NewDescribeView(def)
	if r.format != OutputFormatTable {
		return r.structured(view)
	}

	fmt.Fprintln(r.out, color.Header(view.Label))
	fmt.Fprintf(r.out, "Key: %s\n", view.Key)
	if view.ReplyType != "" {
		fmt.Fprintf(r.out, "Reply: %s (size %d)\n", view.ReplyType, view.ReplySize)
	} else {
		fmt.Fprintln(r.out, "Reply: none")
	}
	if len(view.Fields) == 0 {
		fmt.Fprintln(r.out, color.Muted("No arguments"))
		return nil
	}

	t := r.newTable("FIELD", "TYPE", "SIZE", "IN STRUCT")
	for _, f := range view.Fields {
		inStruct := ""
		if f.Struct {
			inStruct = "yes"
		}
		t.AppendRow(table.Row{f.Name, f.Type, f.Size, dash(inStruct)})
	}
	t.Render()
	return nil
}

// Descriptors shows parsed descriptor strings.
func (r *Renderer) Descriptors(raws []string) error {
	views := make([]DescriptorView, 0, len(raws))
	for _, raw := range raws {
		views = append(views, NewDescriptorView(raw, descriptor.Parse(raw)))
	}
	if r.format != OutputFormatTable {
		return r.structured(views)
	}

	t := r.newTable("DESCRIPTOR", "NAME", "TYPE", "SIZE")
	for _, v := range views {
		t.AppendRow(table.Row{v.Raw, v.Name, v.Type, v.Size})
		for _, f := range v.Fields {
			t.AppendRow(table.Row{"", "  " + f.Name, f.Type, f.Size})
		}
	}
	t.Render()
	return nil
}

// Validation reports a validation result under title. Table output is a
// colored list; json and yaml emit the result itself.
func (r *Renderer) Validation(title string, result *validation.Result) error {
	if r.format != OutputFormatTable {
		return r.structured(result)
	}

	fmt.Fprintln(r.out, color.Header(title))
	for _, e := range result.Errors {
		fmt.Fprintf(r.out, "  %s %s\n", color.Error("✗"), e)
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(r.out, "  %s %s\n", color.Warning("⚠"), w)
	}
	if result.Valid() && !result.HasWarnings() {
		fmt.Fprintf(r.out, "  %s\n", color.Success("✓ No problems found."))
		return nil
	}
	fmt.Fprintf(r.out, "%s\n", color.Muted(fmt.Sprintf("%d error(s), %d warning(s)", len(result.Errors), len(result.Warnings))))
	return nil
}

func (r *Renderer) newTable(headers ...string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleRounded)

	row := make(table.Row, len(headers))
	for i, h := range headers {
		row[i] = text.FgHiCyan.Sprint(h)
	}
	t.AppendHeader(row)
	return t
}

func (r *Renderer) structured(v interface{}) error {
	switch r.format {
	case OutputFormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		fmt.Fprintln(r.out, string(data))
		return nil
	case OutputFormatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to convert to YAML: %w", err)
		}
		fmt.Fprint(r.out, string(data))
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", r.format)
	}
}

func dash(s string) string {
	if s == "" {
		return text.FgHiBlack.Sprint("-")
	}
	return s
}
