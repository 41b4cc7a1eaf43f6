package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Hosea1989/CouplesQuest-App-sub006/internal/engine"
	"github.com/Hosea1989/CouplesQuest-App-sub006/internal/storage"
)

type boardModel struct {
	ctx context.Context
	svc *engine.Service

	width  int
	height int

	character *storage.Character
	tasks     []storage.Task
	duties    []storage.DutySlot

	selected int

	lastLog string
	loading bool
	err     error
}

type loadedMsg struct {
	character *storage.Character
	tasks     []storage.Task
	duties    []storage.DutySlot
	err       error
}

type completedMsg struct {
	id  int64
	res *engine.TaskCompletionResult
	err error
}

type claimedMsg struct {
	res *engine.ClaimDutyResult
	err error
}

func newBoardModel(ctx context.Context, svc *engine.Service) boardModel {
	return boardModel{
		ctx:     ctx,
		svc:     svc,
		loading: true,
		lastLog: "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m boardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		c, err := m.svc.CharacterRepo().GetOrCreateMain(m.ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		tasks, err := m.svc.TaskRepo().ListOpen(m.ctx, c.ID)
		if err != nil {
			return loadedMsg{err: err}
		}
		duties, err := m.svc.EnsureTodaysDuties(m.ctx, c.ID)
		if err != nil {
			return loadedMsg{err: err}
		}
		return loadedMsg{character: c, tasks: tasks, duties: duties}
	}
}

func (m boardModel) completeCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.CompleteTask(m.ctx, id)
		return completedMsg{id: id, res: res, err: err}
	}
}

func (m boardModel) claimCmd(slotID int64) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.ClaimDuty(m.ctx, m.character.ID, slotID)
		return claimedMsg{res: res, err: err}
	}
}

// rowKind separates duty-board rows from task rows in the combined list.
type rowKind int

const (
	rowDuty rowKind = iota
	rowTask
)

type boardRow struct {
	kind    rowKind
	id      int64 // duty slot id or task id
	title   string
	status  string
	claimed bool
}

func (m boardModel) rows() []boardRow {
	var out []boardRow
	for _, d := range m.duties {
		if d.Claimed {
			continue
		}
		out = append(out, boardRow{kind: rowDuty, id: d.ID, title: d.Title, claimed: d.Claimed})
	}

	tasks := append([]storage.Task(nil), m.tasks...)
	sort.Slice(tasks, func(i, j int) bool {
		ai, aj := tasks[i].DueDate, tasks[j].DueDate
		if ai == nil && aj != nil {
			return false
		}
		if ai != nil && aj == nil {
			return true
		}
		if ai != nil && aj != nil && !ai.Equal(*aj) {
			return ai.Before(*aj)
		}
		return tasks[i].ID < tasks[j].ID
	})
	for _, t := range tasks {
		out = append(out, boardRow{kind: rowTask, id: t.ID, title: t.Title, status: t.Status})
	}
	return out
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.lastLog = "Load failed: " + msg.err.Error()
			return m, nil
		}
		m.character = msg.character
		m.tasks = msg.tasks
		m.duties = msg.duties
		m.lastLog = fmt.Sprintf("Refreshed at %s.", time.Now().Format("15:04:05"))
		return m, nil
	case completedMsg:
		if msg.err != nil {
			m.lastLog = "Complete failed: " + msg.err.Error()
			return m, nil
		}
		note := fmt.Sprintf("Completed %d: +%d EXP, +%d gold", msg.id, msg.res.ExpAwarded, msg.res.GoldAwarded)
		if msg.res.Loot != nil {
			note += fmt.Sprintf(", loot: %s", msg.res.Loot.Item)
		}
		if msg.res.LevelUpAvailable {
			note += fmt.Sprintf(", level %d available!", msg.res.LevelAvailable)
		}
		m.lastLog = note
		return m, m.loadCmd()
	case claimedMsg:
		if msg.err != nil {
			m.lastLog = "Claim failed: " + msg.err.Error()
			return m, nil
		}
		m.lastLog = fmt.Sprintf("Claimed %q (task %d, %d claims left)", msg.res.Title, msg.res.TaskID, msg.res.ClaimsLeft)
		return m, m.loadCmd()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			m.lastLog = "Refreshing…"
			return m, m.loadCmd()
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			rows := m.rows()
			if m.selected < len(rows)-1 {
				m.selected++
			}
			return m, nil
		case "c", " ", "enter":
			rows := m.rows()
			if m.selected < 0 || m.selected >= len(rows) {
				return m, nil
			}
			row := rows[m.selected]
			if row.kind == rowDuty {
				m.lastLog = fmt.Sprintf("Claiming %q…", row.title)
				return m, m.claimCmd(row.id)
			}
			t := findTask(m.tasks, row.id)
			if t == nil {
				m.lastLog = "Task not found."
				return m, nil
			}
			if t.Status == string(engine.StatusPending) {
				m.lastLog = fmt.Sprintf("Start %d first (it has not been started).", t.ID)
				return m, nil
			}
			m.lastLog = fmt.Sprintf("Completing %d…", t.ID)
			return m, m.completeCmd(t.ID)
		}
	}
	return m, nil
}

func (m boardModel) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}

	header := m.renderHeader()
	sidebar := m.renderSidebar()
	main := m.renderMain()
	footer := m.renderFooter()

	// Simple 2-column layout.
	leftW := 26
	if m.width > 0 {
		maxLeft := m.width / 2
		if maxLeft < leftW {
			leftW = maxLeft
		}
		if leftW < 18 {
			leftW = 18
		}
	}

	linesLeft := strings.Split(sidebar, "\n")
	linesRight := strings.Split(main, "\n")
	max := len(linesLeft)
	if len(linesRight) > max {
		max = len(linesRight)
	}

	var body strings.Builder
	for i := 0; i < max; i++ {
		l := ""
		r := ""
		if i < len(linesLeft) {
			l = linesLeft[i]
		}
		if i < len(linesRight) {
			r = linesRight[i]
		}
		body.WriteString(padRight(l, leftW))
		body.WriteString("  ")
		body.WriteString(r)
		body.WriteString("\n")
	}

	return header + "\n" + body.String() + footer
}

func (m boardModel) renderHeader() string {
	if m.character == nil {
		return "CouplesQuest | loading…"
	}
	c := m.character
	cur := engine.ExpThreshold(c.Level)
	next := engine.ExpThreshold(c.Level + 1)
	bar := progressBar(c.Exp-cur, next-cur, 30)
	return fmt.Sprintf("CouplesQuest | %s | Level %d | EXP %d %s | Gold %d | Streak %d",
		c.Name, c.Level, c.Exp, bar, c.Gold, c.StreakCurrent)
}

func (m boardModel) renderSidebar() string {
	if m.character == nil {
		return "Stats\n\nLoading…"
	}
	c := m.character
	lines := []string{"Stats"}
	lines = append(lines, fmt.Sprintf("- 💪 STR %d", c.Strength))
	lines = append(lines, fmt.Sprintf("- 🏃 END %d", c.Endurance))
	lines = append(lines, fmt.Sprintf("- 🧠 WIS %d", c.Wisdom))
	lines = append(lines, fmt.Sprintf("- 🗣️ CHA %d", c.Charisma))
	lines = append(lines, fmt.Sprintf("- 🎨 CRE %d", c.Creativity))
	lines = append(lines, fmt.Sprintf("- 🧘 DIS %d", c.Discipline))
	if c.StatPoints > 0 {
		lines = append(lines, fmt.Sprintf("- ✨ %d unspent points", c.StatPoints))
	}
	lines = append(lines, "")
	lines = append(lines, "Keys")
	lines = append(lines, "- ↑/↓ or j/k: move")
	lines = append(lines, "- c/space: claim/complete")
	lines = append(lines, "- r: refresh")
	lines = append(lines, "- q: quit")
	return strings.Join(lines, "\n")
}

func (m boardModel) renderMain() string {
	if m.loading {
		return "Loading…"
	}

	var out []string
	out = append(out, "Duty Board")
	unclaimed := 0
	for _, d := range m.duties {
		if !d.Claimed {
			unclaimed++
		}
	}
	if unclaimed == 0 {
		out = append(out, "(no duties left today)")
	}

	rows := m.rows()
	taskHeaderAt := -1
	for i, row := range rows {
		if row.kind == rowTask && taskHeaderAt == -1 {
			taskHeaderAt = i
		}
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		if i == taskHeaderAt {
			out = append(out, "")
			out = append(out, "Open Tasks")
		}
		switch row.kind {
		case rowDuty:
			out = append(out, fmt.Sprintf("%s🎲 %s", cursor, row.title))
		case rowTask:
			out = append(out, fmt.Sprintf("%s%d %s (status=%s)", cursor, row.id, row.title, row.status))
		}
	}
	if taskHeaderAt == -1 {
		out = append(out, "")
		out = append(out, "Open Tasks")
		out = append(out, "(empty)")
	}
	return strings.Join(out, "\n")
}

func (m boardModel) renderFooter() string {
	return "\n" + m.lastLog
}

func progressBar(value int, total int, width int) string {
	if total <= 0 {
		total = 1
	}
	if width <= 3 {
		width = 3
	}
	if value < 0 {
		value = 0
	}
	if value > total {
		value = total
	}
	ratio := float64(value) / float64(total)
	filled := int(ratio * float64(width))
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}

func findTask(tasks []storage.Task, id int64) *storage.Task {
	for i := range tasks {
		if tasks[i].ID == id {
			return &tasks[i]
		}
	}
	return nil
}
