package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yamsproject/yms/internal/models"
)

// Form field indices, in models.Fields order
const (
	nameField = iota
	authorField
	updatedField
	categoryField
	descriptionField
	instructionsField
	urlField
	fieldCount
)

// ModuleForm edits every setting of a new module at once
type ModuleForm struct {
	base      *models.Module
	inputs    []textinput.Model
	textarea  textarea.Model
	focused   int
	submitted bool
	cancelled bool
	err       string
}

// NewModuleForm creates a form pre-filled with draft
func NewModuleForm(draft *models.Module) *ModuleForm {
	inputs := make([]textinput.Model, fieldCount)
	for i, field := range models.Fields {
		if i == instructionsField {
			continue
		}
		inputs[i] = textinput.New()
		inputs[i].Placeholder = field.Placeholder
		inputs[i].CharLimit = 255
		inputs[i].Width = 60
		value, _ := draft.Get(field.Key)
		inputs[i].SetValue(value)
	}
	inputs[descriptionField].CharLimit = 500

	ta := textarea.New()
	ta.Placeholder = "How to run the module..."
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetWidth(80)
	ta.SetHeight(5)
	ta.SetValue(draft.Instructions)

	f := &ModuleForm{
		base:     draft.Clone(),
		inputs:   inputs,
		textarea: ta,
		focused:  nameField,
	}
	f.inputs[nameField].Focus()
	return f
}

// Init implements tea.Model
func (f *ModuleForm) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles form updates
func (f *ModuleForm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		f.Resize(msg.Width, msg.Height)
		return f, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			f.cancelled = true
			return f, tea.Quit
		case "ctrl+s":
			if strings.TrimSpace(f.inputs[nameField].Value()) == "" {
				f.err = fmt.Sprintf("%s is required", models.KeyName)
				return f, nil
			}
			f.submitted = true
			return f, tea.Quit
		case "tab":
			f.nextField()
			return f, nil
		case "shift+tab":
			f.prevField()
			return f, nil
		case "enter", "down":
			if f.focused != instructionsField {
				f.nextField()
				return f, nil
			}
		case "up":
			if f.focused != instructionsField {
				f.prevField()
				return f, nil
			}
		}
	}

	var cmd tea.Cmd
	if f.focused == instructionsField {
		f.textarea, cmd = f.textarea.Update(msg)
	} else {
		f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
	}
	return f, cmd
}

// View renders the form
func (f *ModuleForm) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("New Module"))
	b.WriteString("\n\n")

	for i, field := range models.Fields {
		label := StyleFormLabel.Render(field.Key)
		if i == f.focused {
			label = StyleFocused.Render(field.Key)
		}
		b.WriteString(label)
		b.WriteString("\n")

		if i == instructionsField {
			b.WriteString(f.textarea.View())
		} else {
			b.WriteString(" " + f.inputs[i].View())
		}
		b.WriteString("\n")

		if field.Help != "" {
			b.WriteString(CreateHelp(field.Help))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if f.err != "" {
		b.WriteString(CreateStatus(f.err, "error"))
		b.WriteString("\n")
	}
	b.WriteString(CreateHelp("tab/shift+tab: move • ctrl+s: save • esc: cancel"))

	return StyleCard.Render(b.String())
}

// Resize updates field widths to the terminal
func (f *ModuleForm) Resize(width, _ int) {
	inner := width - 10
	if inner < 20 {
		inner = 20
	}
	for i := range f.inputs {
		if i != instructionsField {
			f.inputs[i].Width = inner
		}
	}
	f.textarea.SetWidth(inner)
}

// Module returns the draft with the form's values applied
func (f *ModuleForm) Module() *models.Module {
	m := f.base.Clone()
	for i, field := range models.Fields {
		if i == instructionsField {
			m.Set(field.Key, f.textarea.Value())
			continue
		}
		m.Set(field.Key, strings.TrimSpace(f.inputs[i].Value()))
	}
	return m
}

// IsSubmitted reports whether the user saved the form
func (f *ModuleForm) IsSubmitted() bool {
	return f.submitted
}

// IsCancelled reports whether the user left without saving
func (f *ModuleForm) IsCancelled() bool {
	return f.cancelled
}

// Error returns the validation message shown on the form, if any
func (f *ModuleForm) Error() string {
	return f.err
}

func (f *ModuleForm) nextField() {
	f.blur()
	f.focused = (f.focused + 1) % fieldCount
	f.focus()
}

func (f *ModuleForm) prevField() {
	f.blur()
	f.focused = (f.focused + fieldCount - 1) % fieldCount
	f.focus()
}

func (f *ModuleForm) blur() {
	if f.focused == instructionsField {
		f.textarea.Blur()
	} else {
		f.inputs[f.focused].Blur()
	}
}

func (f *ModuleForm) focus() {
	if f.focused == instructionsField {
		f.textarea.Focus()
	} else {
		f.inputs[f.focused].Focus()
	}
}

// RunForm shows the form on the terminal until the user saves or cancels
func RunForm(ctx context.Context, draft *models.Module) (*models.Module, bool, error) {
	final, err := tea.NewProgram(NewModuleForm(draft), tea.WithContext(ctx)).Run()
	if err != nil {
		return nil, false, fmt.Errorf("form failed: %w", err)
	}

	form, ok := final.(*ModuleForm)
	if !ok || !form.IsSubmitted() {
		return draft, false, nil
	}
	return form.Module(), true, nil
}
