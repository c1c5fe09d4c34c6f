package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/mgpai22/capline/internal/caption"
	"github.com/mgpai22/capline/internal/logging"
	"github.com/mgpai22/capline/internal/playback"
	"github.com/mgpai22/capline/internal/session"
	"github.com/mgpai22/capline/internal/source"
	"github.com/mgpai22/capline/internal/timecode"

	tea "github.com/charmbracelet/bubbletea"
)

// Field identifies one of the text inputs.
type Field int

const (
	FieldURL Field = iota
	FieldText
	FieldStart
	FieldEnd
	fieldCount
)

const (
	tickInterval        = 250 * time.Millisecond
	seekStep            = 5.0
	defaultProbeTimeout = 15 * time.Second
)

// Model is the root bubbletea model for the caption player. All session
// calls happen inside Update, which makes bubbletea's loop the session's
// single event queue.
type Model struct {
	ctrl         *session.Controller
	prober       source.Prober
	probeTimeout time.Duration
	logger       *logging.Logger

	inputs [fieldCount]textinput.Model
	focus  Field

	// result of the last add or load action
	notice string

	lastTick time.Time
	width    int
	height   int

	keys keyMap
	help help.Model
}

// New creates a player model. A nil prober disables probing.
func New(ctrl *session.Controller, prober source.Prober, logger *logging.Logger) Model {
	if logger == nil {
		logger = logging.Nop()
	}

	m := Model{
		ctrl:         ctrl,
		prober:       prober,
		probeTimeout: defaultProbeTimeout,
		logger:       logger.Named("ui"),
		keys:         defaultKeyMap(),
		help:         help.New(),
	}

	placeholders := [fieldCount]string{
		FieldURL:   "Enter video URL",
		FieldText:  "Enter caption text",
		FieldStart: "Enter start time (hh:mm:ss)",
		FieldEnd:   "Enter end time (hh:mm:ss)",
	}
	for i := range m.inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.Width = 48
		m.inputs[i] = in
	}
	m.inputs[FieldStart].CharLimit = 16
	m.inputs[FieldEnd].CharLimit = 16
	m.inputs[FieldURL].Focus()

	return m
}

// WithURL pre-fills the URL field and loads it on Init.
func (m Model) WithURL(url string) Model {
	m.inputs[FieldURL].SetValue(url)
	return m
}

// WithProbeTimeout bounds each probe. Non-positive values keep the default.
func (m Model) WithProbeTimeout(d time.Duration) Model {
	if d > 0 {
		m.probeTimeout = d
	}
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, tickCmd()}
	if url := m.inputs[FieldURL].Value(); url != "" {
		cmds = append(cmds, func() tea.Msg { return loadURLMsg{url: url} })
	}
	return tea.Batch(cmds...)
}

type loadURLMsg struct{ url string }

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg{At: t}
	})
}

func probeCmd(p source.Prober, timeout time.Duration, media *playback.Element, src source.Source) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		info, err := p.Probe(ctx, src)
		return ProbeDoneMsg{Media: media, Info: info, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if media := m.ctrl.Media(); media != nil && media.Playing() && !m.lastTick.IsZero() {
			media.Advance(msg.At.Sub(m.lastTick))
		}
		m.lastTick = msg.At
		return m, tickCmd()

	case loadURLMsg:
		return m, m.loadVideo(msg.url)

	case ProbeDoneMsg:
		if msg.Err != nil {
			m.logger.Warnw("Probe failed", "error", msg.Err)
		}
		m.ctrl.ApplyProbe(msg.Media, msg.Info, msg.Err)
		return m, nil
	}

	return m.updateFocused(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.ctrl.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Next):
		return m, m.setFocus((m.focus + 1) % fieldCount)

	case key.Matches(msg, m.keys.Prev):
		return m, m.setFocus((m.focus + fieldCount - 1) % fieldCount)

	case key.Matches(msg, m.keys.Submit):
		if m.focus == FieldURL {
			return m, m.loadVideo(m.inputs[FieldURL].Value())
		}
		return m, m.addCaption()

	case key.Matches(msg, m.keys.Play):
		m.togglePlay()
		return m, nil

	case key.Matches(msg, m.keys.Back):
		m.seekBy(-seekStep)
		return m, nil

	case key.Matches(msg, m.keys.Forward):
		m.seekBy(seekStep)
		return m, nil
	}

	return m.updateFocused(msg)
}

func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) setFocus(f Field) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = f
	return m.inputs[f].Focus()
}

func (m *Model) loadVideo(url string) tea.Cmd {
	m.notice = ""
	m.lastTick = time.Time{}

	err := m.ctrl.LoadVideo(url)
	var unresolved *source.UnresolvedVideoIDError
	if errors.As(err, &unresolved) {
		m.notice = "Could not find a video id in that URL"
		return nil
	}
	if err != nil {
		m.notice = err.Error()
		return nil
	}

	media := m.ctrl.Media()
	if media == nil || m.prober == nil {
		return nil
	}
	return probeCmd(m.prober, m.probeTimeout, media, m.ctrl.State().Source)
}

func (m *Model) addCaption() tea.Cmd {
	text := m.inputs[FieldText].Value()
	start := m.inputs[FieldStart].Value()
	end := m.inputs[FieldEnd].Value()

	entry, err := m.ctrl.OnAddCaptionRequested(text, start, end)
	switch {
	case errors.Is(err, session.ErrEmptyField):
		return nil
	case err != nil:
		m.notice = err.Error()
		return nil
	}

	m.notice = fmt.Sprintf("Added caption #%d", entry.Index)
	m.inputs[FieldText].Reset()
	m.inputs[FieldStart].Reset()
	m.inputs[FieldEnd].Reset()
	return m.setFocus(FieldText)
}

func (m *Model) togglePlay() {
	media := m.ctrl.Media()
	if media == nil {
		return
	}
	if media.Playing() {
		media.Pause()
		return
	}
	media.Play()
	m.lastTick = time.Time{}
}

func (m *Model) seekBy(delta float64) {
	media := m.ctrl.Media()
	if media == nil {
		return
	}
	media.Seek(media.Position() + delta)
}

func (m Model) View() string {
	st := m.ctrl.State()
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Video Caption Player"))
	b.WriteString("\n\n")
	b.WriteString(m.field(FieldURL, "Video"))
	b.WriteString("\n")

	if st.VideoURL != "" {
		b.WriteString(m.renderSource(st))
		b.WriteString("\n")
		b.WriteString(m.renderScreen(st))
		b.WriteString("\n")
	}
	if st.Error != "" {
		b.WriteString(ErrorStyle.Render(st.Error))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.field(FieldText, "Caption"))
	b.WriteString("\n")
	b.WriteString(m.field(FieldStart, "Start"))
	b.WriteString("\n")
	b.WriteString(m.field(FieldEnd, "End"))
	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(NoticeStyle.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString(ListHeaderStyle.Render("Captions List"))
	b.WriteString("\n")
	entries := st.Captions.Entries()
	if len(entries) == 0 {
		b.WriteString(ListItemStyle.Render(DimStyle.Render("No captions yet")))
		b.WriteString("\n")
	}
	for _, e := range entries {
		if st.VideoURL != "" && e.Contains(st.Position) {
			b.WriteString(ActiveItemStyle.Render("> " + e.String()))
		} else {
			b.WriteString(ListItemStyle.Render(e.String()))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) field(f Field, label string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		LabelStyle.Render(label),
		m.inputs[f].View(),
	)
}

func (m Model) renderSource(st session.State) string {
	var desc string
	switch {
	case st.Source.Kind == source.KindPlatform && st.Source.VideoID != "":
		desc = "YouTube " + st.Source.VideoID
	case st.Source.Kind == source.KindPlatform:
		desc = "YouTube (unrecognized link)"
	default:
		desc = "Direct media"
	}

	line := SourceStyle.Render(desc)
	if media := m.ctrl.Media(); media != nil {
		state := PausedStyle.Render("❚❚ paused")
		if media.Playing() {
			state = PlayingStyle.Render("▶ playing")
		}
		clock := timecode.Format(media.Position())
		if d := media.Duration(); d > 0 {
			clock += " / " + timecode.Format(d.Seconds())
		}
		line += "  " + state + "  " + ClockStyle.Render(clock)
	}
	return LabelStyle.Render("Source") + line
}

func (m Model) renderScreen(st session.State) string {
	content := ""
	if st.Caption != "" {
		content = CaptionStyle.Render(caption.Wrap(st.Caption, caption.DefaultMaxCharsPerLine))
	}
	return ScreenStyle.Render(content)
}
