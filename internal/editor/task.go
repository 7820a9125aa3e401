package editor

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/amonks/taskpad/internal/deadline"
	"github.com/amonks/taskpad/task"
)

// TaskData represents the data used to render the TOML template.
type TaskData struct {
	// IsUpdate is true when editing an existing task.
	IsUpdate bool
	// ID is the task ID (only for updates).
	ID string
	// Name is the task name.
	Name string
	// Deadline is the deadline in deadline.Layout, or empty.
	Deadline string
	// Note is the markdown note.
	Note string
}

// DataFromTask creates TaskData from an existing task for editing.
func DataFromTask(t *task.Task, loc *time.Location) TaskData {
	return TaskData{
		IsUpdate: true,
		ID:       t.ID,
		Name:     t.Name,
		Deadline: deadline.Format(t.Deadline, loc),
		Note:     t.Note,
	}
}

var taskTemplate = template.Must(template.New("task").Parse(`{{- if .IsUpdate }}# editing {{ .ID }}
{{ end -}}
name = {{ printf "%q" .Name }}
deadline = {{ printf "%q" .Deadline }} # "YYYY-MM-DD HH:MM", RFC 3339, "+90m", or "" for none
---
{{ .Note }}
`))

// RenderTaskTOML renders the task data as a TOML string for editing.
func RenderTaskTOML(data TaskData) (string, error) {
	var buf bytes.Buffer
	if err := taskTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return buf.String(), nil
}

// ParsedTask represents the parsed result from the TOML editor output.
type ParsedTask struct {
	Name     string     `toml:"name"`
	RawDate  string     `toml:"deadline"`
	Deadline *time.Time `toml:"-"`
	Note     string     `toml:"-"`
}

// ParseTaskTOML parses the TOML content from the editor.
func ParseTaskTOML(content string, now time.Time, loc *time.Location) (*ParsedTask, error) {
	frontmatter, body := splitFrontmatter(content)

	var parsed ParsedTask
	if _, err := toml.Decode(frontmatter, &parsed); err != nil {
		return nil, fmt.Errorf("parse TOML: %w", err)
	}
	parsed.Name = strings.TrimSpace(parsed.Name)
	parsed.Note = strings.TrimSpace(body)

	if err := task.ValidateName(parsed.Name); err != nil {
		return nil, err
	}
	d, err := deadline.Parse(parsed.RawDate, now, loc)
	if err != nil {
		return nil, err
	}
	parsed.Deadline = d

	return &parsed, nil
}

func splitFrontmatter(content string) (string, string) {
	content = strings.TrimLeft(content, "\n")
	if content == "" {
		return "", ""
	}

	lines := strings.Split(content, "\n")
	separatorIndex := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == "---" {
			separatorIndex = i
			break
		}
	}
	if separatorIndex == -1 {
		return content, ""
	}

	frontmatter := strings.Join(lines[:separatorIndex], "\n")
	body := strings.Join(lines[separatorIndex+1:], "\n")
	return frontmatter, body
}

// EditTask opens the editor with pre-populated data and returns the parsed result.
func EditTask(data TaskData, now time.Time, loc *time.Location) (*ParsedTask, error) {
	content, err := RenderTaskTOML(data)
	if err != nil {
		return nil, err
	}

	tmpfile, err := os.CreateTemp("", "taskpad-*.md")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpfile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpfile.WriteString(content); err != nil {
		tmpfile.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpfile.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	if err := Edit(tmpPath); err != nil {
		return nil, err
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("read edited file: %w", err)
	}

	return ParseTaskTOML(string(edited), now, loc)
}

// ToAddOptions converts a ParsedTask to task.AddOptions.
func (p *ParsedTask) ToAddOptions() task.AddOptions {
	return task.AddOptions{
		Deadline: p.Deadline,
		Note:     p.Note,
	}
}

// ToUpdateOptions converts a ParsedTask to task.UpdateOptions. Every field
// is written, so an emptied deadline clears it.
func (p *ParsedTask) ToUpdateOptions() task.UpdateOptions {
	name := p.Name
	note := p.Note
	opts := task.UpdateOptions{
		Name: &name,
		Note: &note,
	}
	if p.Deadline != nil {
		opts.Deadline = p.Deadline
	} else {
		opts.ClearDeadline = true
	}
	return opts
}
