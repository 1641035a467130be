package termui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	mdt "github.com/goliatone/go-mdt/components/mdt"
)

type formState struct {
	kind   mdt.FormKind
	tmpl   mdt.FormTemplate
	inputs []textinput.Model
	focus  int
}

func newFormState(tmpl mdt.FormTemplate) *formState {
	f := &formState{kind: tmpl.Kind, tmpl: tmpl}
	for _, field := range tmpl.Fields {
		input := textinput.New()
		input.Prompt = ""
		input.CharLimit = 256
		input.Placeholder = placeholder(field)
		f.inputs = append(f.inputs, input)
	}
	return f
}

func placeholder(field mdt.FormField) string {
	switch field.Type {
	case mdt.FieldDate:
		return "YYYY-MM-DD"
	case mdt.FieldSelect:
		values := make([]string, 0, len(field.Options))
		for _, opt := range field.Options {
			if opt.Value != "" {
				values = append(values, opt.Value)
			}
		}
		return strings.Join(values, " | ")
	default:
		return field.Label
	}
}

func (f *formState) focusCmd() tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	return f.inputs[f.focus].Focus()
}

func (f *formState) onLast() bool {
	return f.focus >= len(f.inputs)-1
}

func (f *formState) move(delta int) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	return f.inputs[f.focus].Focus()
}

func (f *formState) update(msg tea.Msg) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// values returns the entered values keyed by field name, trimmed.
func (f *formState) values() map[string]string {
	out := make(map[string]string, len(f.inputs))
	for i, field := range f.tmpl.Fields {
		out[field.Name] = strings.TrimSpace(f.inputs[i].Value())
	}
	return out
}
