package statsui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/typesprint/internal/model"
)

const dateLayout = "2006-01-02"

// filterField binds one settings input to a HistoryConfig field.
type filterField struct {
	input textinput.Model
	show  func(model.HistoryConfig) string
	apply func(*model.HistoryConfig, string) error
}

// filterForm edits history settings; changes apply only when every field parses.
type filterForm struct {
	fields []filterField
	focus  int
	err    string
}

func newFilterForm() filterForm {
	return filterForm{fields: []filterField{
		{
			input: newFilterInput("Mode (words/quote): ", "any"),
			show:  func(c model.HistoryConfig) string { return string(c.Mode) },
			apply: func(c *model.HistoryConfig, raw string) error {
				if raw == "" {
					c.Mode = ""
					return nil
				}
				mode, err := model.ParseMode(raw)
				c.Mode = mode
				return err
			},
		},
		{
			input: newFilterInput("Time (seconds): ", "any"),
			show:  func(c model.HistoryConfig) string { return positive(c.Duration) },
			apply: func(c *model.HistoryConfig, raw string) (err error) {
				c.Duration, err = parseCount(raw, "time")
				return err
			},
		},
		{
			input: newFilterInput("Since (YYYY-MM-DD): ", "any"),
			show: func(c model.HistoryConfig) string {
				if c.Since == nil {
					return ""
				}
				return c.Since.Format(dateLayout)
			},
			apply: func(c *model.HistoryConfig, raw string) error {
				c.Since = nil
				if raw == "" {
					return nil
				}
				since, err := time.ParseInLocation(dateLayout, raw, time.Local)
				if err != nil {
					return errors.New("invalid since date (expected YYYY-MM-DD)")
				}
				c.Since = &since
				return nil
			},
		},
		{
			input: newFilterInput("Last: ", "all"),
			show:  func(c model.HistoryConfig) string { return positive(c.Last) },
			apply: func(c *model.HistoryConfig, raw string) (err error) {
				c.Last, err = parseCount(raw, "last")
				return err
			},
		},
		{
			input: newFilterInput("Curve window: ", "1"),
			show:  func(c model.HistoryConfig) string { return strconv.Itoa(c.CurveWindow) },
			apply: func(c *model.HistoryConfig, raw string) error {
				c.CurveWindow = 1
				if raw == "" {
					return nil
				}
				n, err := strconv.Atoi(raw)
				if err != nil || n < 1 {
					return errors.New("invalid curve window (use integer >= 1)")
				}
				c.CurveWindow = n
				return nil
			},
		},
	}}
}

func newFilterInput(prompt, placeholder string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.Placeholder = placeholder
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

// load copies cfg into the inputs and clears any previous error.
func (f *filterForm) load(cfg model.HistoryConfig) {
	for i := range f.fields {
		f.fields[i].input.SetValue(f.fields[i].show(cfg))
	}
	f.err = ""
}

// parse builds a config from the inputs without touching the current one.
func (f *filterForm) parse() (model.HistoryConfig, error) {
	var cfg model.HistoryConfig
	for _, field := range f.fields {
		if err := field.apply(&cfg, strings.TrimSpace(field.input.Value())); err != nil {
			return model.HistoryConfig{}, err
		}
	}
	return cfg, nil
}

func (f *filterForm) setFocus(idx int) tea.Cmd {
	n := len(f.fields)
	f.focus = (idx%n + n) % n
	var cmd tea.Cmd
	for i := range f.fields {
		if i == f.focus {
			cmd = f.fields[i].input.Focus()
		} else {
			f.fields[i].input.Blur()
		}
	}
	return cmd
}

func (f *filterForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return cmd
}

func (f *filterForm) setWidth(width int) {
	for i := range f.fields {
		in := &f.fields[i].input
		in.Width = max(10, width-len([]rune(in.Prompt))-2)
	}
}

func (f *filterForm) view() string {
	lines := []string{"Settings"}
	for _, field := range f.fields {
		lines = append(lines, field.input.View())
	}
	if f.err != "" {
		lines = append(lines, "", errorStyle.Render(f.err))
	}
	return strings.Join(lines, "\n")
}

func positive(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func parseCount(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s value (use 0 or positive integer)", name)
	}
	return n, nil
}
