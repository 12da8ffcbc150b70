package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// form is a vertical stack of labelled text inputs with one focused field.
type form struct {
	labels []string
	inputs []textinput.Model
	focus  int
}

func newForm(labels, placeholders []string) form {
	f := form{labels: labels, inputs: make([]textinput.Model, len(labels))}
	for i := range labels {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 256
		ti.Width = 40
		if i < len(placeholders) {
			ti.Placeholder = placeholders[i]
		}
		f.inputs[i] = ti
	}
	f.inputs[0].Focus()
	return f
}

func (f *form) setFocus(i int) tea.Cmd {
	if i < 0 || i >= len(f.inputs) {
		return nil
	}
	f.inputs[f.focus].Blur()
	f.focus = i
	return f.inputs[i].Focus()
}

func (f *form) next() tea.Cmd { return f.setFocus((f.focus + 1) % len(f.inputs)) }
func (f *form) prev() tea.Cmd { return f.setFocus((f.focus + len(f.inputs) - 1) % len(f.inputs)) }

func (f form) last() bool { return f.focus == len(f.inputs)-1 }

func (f form) value(i int) string { return f.inputs[i].Value() }

func (f form) update(msg tea.Msg) (form, tea.Cmd) {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f form) view() string {
	var b strings.Builder
	for i, in := range f.inputs {
		label := HelpStyle.Render(f.labels[i] + ":")
		if i == f.focus {
			label = LabelStyle.Render(f.labels[i] + ":")
		}
		b.WriteString(label + " " + in.View() + "\n")
	}
	return b.String()
}
