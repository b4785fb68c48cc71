package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/imgaug/pkg/augment"
	"github.com/matzehuels/imgaug/pkg/pipeline"
	"github.com/matzehuels/imgaug/pkg/store"
)

const progressBarWidth = 40

// Progress styles
var (
	barFilledStyle = lipgloss.NewStyle().Foreground(colorCyan)
	barEmptyStyle  = lipgloss.NewStyle().Foreground(colorDim)
	listDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
	headerStyle    = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// ProgressModel - Live augmentation progress
// =============================================================================

type progressMsg pipeline.Progress

type finishedMsg struct{}

// ProgressModel is the bubbletea model drawn while a pipeline runs.
type ProgressModel struct {
	Done        int
	Total       int
	Failed      int
	Last        string
	Finished    bool
	Interrupted bool
}

func (m ProgressModel) Init() tea.Cmd {
	return nil
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		m.Done = msg.Done
		m.Total = msg.Total
		m.Last = msg.Path
		if msg.Err != nil {
			m.Failed++
		}
	case finishedMsg:
		m.Finished = true
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Interrupted = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ProgressModel) View() string {
	if m.Finished {
		return ""
	}
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Augmenting"))
	b.WriteString(" ")
	b.WriteString(renderBar(m.Done, m.Total, progressBarWidth))
	b.WriteString(" ")
	b.WriteString(StyleNumber.Render(fmt.Sprintf("%d/%d", m.Done, m.Total)))
	if m.Failed > 0 {
		b.WriteString(StyleDim.Render(" · "))
		b.WriteString(StyleWarning.Render(fmt.Sprintf("%d failed", m.Failed)))
	}
	b.WriteString("\n")
	if m.Last != "" {
		b.WriteString(listDimStyle.Render("  " + m.Last))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("  q quit"))
	b.WriteString("\n")

	return b.String()
}

// renderBar draws a progress bar of width cells.
func renderBar(done, total, width int) string {
	filled := 0
	if total > 0 {
		filled = done * width / total
	}
	filled = min(max(filled, 0), width)
	return barFilledStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", width-filled))
}

// runWithTUI executes the pipeline while drawing a progress bar on stderr.
// Quitting the view cancels the run.
func runWithTUI(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (*pipeline.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(ProgressModel{}, tea.WithContext(ctx), tea.WithOutput(os.Stderr))

	type outcome struct {
		res *pipeline.Result
		err error
	}
	done := make(chan outcome, 1)

	// Log lines would tear the view; the summary is printed afterwards.
	opts.Logger = log.New(io.Discard)
	opts.Progress = func(pr pipeline.Progress) { p.Send(progressMsg(pr)) }
	go func() {
		res, err := runner.Execute(ctx, opts)
		done <- outcome{res, err}
		p.Send(finishedMsg{})
	}()

	final, err := p.Run()
	if m, ok := final.(ProgressModel); err != nil || (ok && m.Interrupted) {
		cancel()
	}
	out := <-done
	return out.res, out.err
}

// =============================================================================
// Tables
// =============================================================================

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorCyan).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

// renderOperators renders the operator registry as a table.
func renderOperators(infos []augment.Info) string {
	t := newTable("Operator", "Kernel", "Random", "Description")
	for _, info := range infos {
		random := ""
		if info.Random {
			random = iconSuccess
		}
		t.Row(info.Name, info.Kernel, random, info.Description)
	}
	return t.Render()
}

// renderRuns renders run summaries as a table, newest first.
func renderRuns(runs []*store.Run) string {
	t := newTable("Run", "Started", "Images", "Outputs", "Cached", "Failed", "Duration")
	for _, r := range runs {
		t.Row(
			r.ID,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			fmt.Sprint(r.Images),
			fmt.Sprint(r.Outputs),
			fmt.Sprint(r.CacheHits),
			fmt.Sprint(len(r.Failures)),
			r.Duration().Round(time.Millisecond).String(),
		)
	}
	return t.Render()
}
