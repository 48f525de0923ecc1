// Package tui provides an interactive terminal browser over a built
// record index, following the Elm architecture via Bubbletea.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/defbrowser-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/defbrowser-cli/internal/core/domain"
)

// Browser is the terminal browser model. It owns a filter input, the
// filtered record list, and a detail viewport for the selected record.
type Browser struct {
	styles *styles.Styles
	input  textinput.Model
	detail viewport.Model

	index *domain.Index

	// filtered holds positions into index.Records matching the query.
	filtered []int
	selected int

	showDetail bool
	width      int
	height     int
	ready      bool
}

// Ensure Browser implements tea.Model.
var _ tea.Model = (*Browser)(nil)

// NewBrowser creates a browser over an already built index.
func NewBrowser(index *domain.Index) (*Browser, error) {
	if index == nil {
		return nil, fmt.Errorf("creating browser: %w", domain.ErrInvalidInput)
	}

	ti := textinput.New()
	ti.Placeholder = "Filter records..."
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 50

	b := &Browser{
		styles: styles.DefaultStyles(),
		input:  ti,
		detail: viewport.New(80, 20),
		index:  index,
		width:  80,
		height: 24,
	}
	b.applyFilter("")
	return b, nil
}

// Init initialises the browser.
func (b *Browser) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.detail.Width = msg.Width - 4
		b.detail.Height = msg.Height - 6
		b.ready = true
		return b, nil

	case tea.KeyMsg:
		return b.handleKeyMsg(msg)
	}

	return b, nil
}

func (b *Browser) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return b, tea.Quit
	}

	if b.showDetail {
		return b.handleDetailKey(msg)
	}

	if b.input.Focused() {
		return b.handleInputKey(msg)
	}

	return b.handleListKey(msg)
}

// handleInputKey processes keys while the filter input has focus.
func (b *Browser) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type { //nolint:exhaustive // only mode-switching keys matter here
	case tea.KeyEsc:
		return b, tea.Quit
	case tea.KeyEnter, tea.KeyTab, tea.KeyDown:
		b.input.Blur()
		return b, nil
	default:
	}

	var cmd tea.Cmd
	b.input, cmd = b.input.Update(msg)
	b.applyFilter(b.input.Value())
	return b, cmd
}

// handleListKey processes keys while navigating the result list.
func (b *Browser) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type { //nolint:exhaustive // only navigation keys matter here
	case tea.KeyEsc:
		return b, tea.Quit
	case tea.KeyUp:
		b.moveSelection(-1)
		return b, nil
	case tea.KeyDown:
		b.moveSelection(1)
		return b, nil
	case tea.KeyEnter:
		b.openDetail()
		return b, nil
	case tea.KeyTab:
		return b, b.input.Focus()
	default:
	}

	switch msg.String() {
	case "k":
		b.moveSelection(-1)
	case "j":
		b.moveSelection(1)
	case "/":
		return b, b.input.Focus()
	case "q":
		return b, tea.Quit
	}
	return b, nil
}

// handleDetailKey processes keys while the detail viewport is open.
func (b *Browser) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc || msg.String() == "q" {
		b.showDetail = false
		return b, nil
	}

	var cmd tea.Cmd
	b.detail, cmd = b.detail.Update(msg)
	return b, cmd
}

func (b *Browser) moveSelection(delta int) {
	next := b.selected + delta
	if next < 0 || next >= len(b.filtered) {
		return
	}
	b.selected = next
}

func (b *Browser) openDetail() {
	rec := b.Selected()
	if rec == nil {
		return
	}
	b.detail.SetContent(b.renderDetail(rec))
	b.detail.GotoTop()
	b.showDetail = true
}

// Selected returns the record under the cursor, or nil when the
// filtered list is empty.
func (b *Browser) Selected() *domain.Record {
	if b.selected < 0 || b.selected >= len(b.filtered) {
		return nil
	}
	return &b.index.Records[b.filtered[b.selected]]
}

// applyFilter recomputes the filtered list. Every whitespace-separated
// token must appear somewhere in the record's searchable text.
func (b *Browser) applyFilter(query string) {
	tokens := strings.Fields(strings.ToLower(query))
	b.filtered = b.filtered[:0]

	for i := range b.index.Records {
		rec := &b.index.Records[i]
		if matchesTokens(rec, tokens) {
			b.filtered = append(b.filtered, i)
		}
	}

	if b.selected >= len(b.filtered) {
		b.selected = 0
	}
}

func matchesTokens(rec *domain.Record, tokens []string) bool {
	if len(tokens) == 0 {
		return true
	}
	haystack := strings.ToLower(
		rec.DefType + " " + rec.DefName + " " + rec.Source + " " + rec.TextBlob,
	)
	for _, tok := range tokens {
		if !strings.Contains(haystack, tok) {
			return false
		}
	}
	return true
}

// View renders the browser.
func (b *Browser) View() string {
	if !b.ready {
		return "Loading..."
	}

	if b.showDetail {
		return b.viewDetail()
	}
	return b.viewList()
}

func (b *Browser) viewList() string {
	var sb strings.Builder

	title := b.styles.Title.Render("Defs Browser")
	counts := b.styles.Muted.Render(
		fmt.Sprintf(" %d/%d records", len(b.filtered), len(b.index.Records)),
	)
	sb.WriteString(title + counts + "\n\n")

	label := b.styles.Subtitle.Render("Filter: ")
	sb.WriteString(label + b.styles.InputField.Render(b.input.View()) + "\n\n")

	sb.WriteString(b.renderRows())
	sb.WriteString("\n" + b.helpLine())
	return sb.String()
}

func (b *Browser) renderRows() string {
	if len(b.filtered) == 0 {
		return b.styles.Muted.Render("No matching records") + "\n"
	}

	visible := b.height - 8
	if visible < 1 {
		visible = 1
	}

	start := 0
	if b.selected >= visible {
		start = b.selected - visible + 1
	}
	end := start + visible
	if end > len(b.filtered) {
		end = len(b.filtered)
	}

	var sb strings.Builder
	for i := start; i < end; i++ {
		rec := &b.index.Records[b.filtered[i]]

		indicator := "  "
		line := fmt.Sprintf("%s:%s", rec.DefType, rec.DefName)
		src := b.styles.Muted.Render(" [" + rec.Source + "]")

		if i == b.selected {
			indicator = "> "
			sb.WriteString(indicator + b.styles.Selected.Render(line) + src + "\n")
			continue
		}
		sb.WriteString(indicator + b.styles.Normal.Render(line) + src + "\n")
	}
	return sb.String()
}

func (b *Browser) viewDetail() string {
	rec := b.Selected()
	if rec == nil {
		b.showDetail = false
		return b.viewList()
	}

	header := b.styles.Title.Render(rec.DisplayLabel())
	help := b.styles.Help.Render("↑/↓ scroll · esc back")
	return header + "\n" + b.styles.Border.Render(b.detail.View()) + "\n" + help
}

// renderDetail builds the scrollable detail text for one record.
func (b *Browser) renderDetail(rec *domain.Record) string {
	var sb strings.Builder

	writeRow := func(name, value string) {
		if value == "" {
			return
		}
		sb.WriteString(b.styles.Subtitle.Render(name+": ") + value + "\n")
	}

	writeRow("Type", rec.DefType)
	writeRow("Name", rec.DefName)
	writeRow("Label", rec.Label)
	writeRow("Source", rec.Source)
	writeRow("File", rec.RelPath)
	writeRow("Parent", rec.ParentName)
	if rec.IsAbstract {
		writeRow("Abstract", "yes")
	}
	if rec.Kind == domain.KindPatch {
		writeRow("Operation", rec.OperationType)
		writeRow("Selector", rec.Selector)
	}
	writeRow("Description", rec.Description)

	if len(rec.AncestorLabels) > 0 {
		sb.WriteString("\n" + b.styles.Title.Render("Inheritance") + "\n")
		for _, label := range rec.AncestorLabels {
			sb.WriteString("  ← " + label + "\n")
		}
	}

	fields := rec.InheritedFields
	if len(fields) == 0 {
		fields = rec.Fields
	}
	if len(fields) > 0 {
		sb.WriteString("\n" + b.styles.Title.Render("Fields") + "\n")
		for _, f := range fields {
			sb.WriteString("  " + b.styles.Tag.Render(f.Key) + " = " + f.Value + "\n")
		}
	}

	if len(rec.SimilarTags) > 0 {
		sb.WriteString("\n" + b.styles.Title.Render("Similar Tags") + "\n")
		for _, tag := range rec.SimilarTags {
			sb.WriteString(fmt.Sprintf("  %s = %s (%d records)\n",
				b.styles.Tag.Render(tag.Key), tag.Value, tag.Count))
		}
	}

	if rec.RawXML != "" {
		sb.WriteString("\n" + b.styles.Title.Render("Raw XML") + "\n")
		sb.WriteString(rec.RawXML + "\n")
	}

	return sb.String()
}

func (b *Browser) helpLine() string {
	if b.input.Focused() {
		return b.styles.Help.Render("type to filter · enter/tab results · esc quit")
	}
	return b.styles.Help.Render("↑/↓ navigate · enter detail · / filter · q quit")
}

// Run launches the browser in the alternate screen and blocks until
// the user quits.
func Run(ctx context.Context, index *domain.Index) error {
	browser, err := NewBrowser(index)
	if err != nil {
		return err
	}

	p := tea.NewProgram(browser, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running browser: %w", err)
	}
	return nil
}
