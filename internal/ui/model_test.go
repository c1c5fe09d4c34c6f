package ui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mgpai22/capline/internal/session"
	"github.com/mgpai22/capline/internal/source"

	tea "github.com/charmbracelet/bubbletea"
)

func newModel(t *testing.T) Model {
	t.Helper()
	ctrl := session.NewController(nil, nil, session.Options{})
	t.Cleanup(ctrl.Close)
	return New(ctrl, nil, nil)
}

func typeText(m Model, s string) Model {
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return updated.(Model)
}

func press(m Model, k tea.KeyType) Model {
	updated, _ := m.Update(tea.KeyMsg{Type: k})
	return updated.(Model)
}

func send(m Model, msg tea.Msg) Model {
	updated, _ := m.Update(msg)
	return updated.(Model)
}

func TestNewModel(t *testing.T) {
	m := newModel(t)
	if m.focus != FieldURL {
		t.Errorf("expected URL field focused, got %d", m.focus)
	}
	if !m.inputs[FieldURL].Focused() {
		t.Error("URL input should be focused")
	}
}

func TestFocusCycles(t *testing.T) {
	m := newModel(t)
	for i := 0; i < int(fieldCount); i++ {
		m = press(m, tea.KeyTab)
	}
	if m.focus != FieldURL {
		t.Errorf("expected focus to wrap to URL, got %d", m.focus)
	}
	m = press(m, tea.KeyShiftTab)
	if m.focus != FieldEnd {
		t.Errorf("expected shift+tab to reach End, got %d", m.focus)
	}
}

func TestLoadVideoOnEnter(t *testing.T) {
	m := newModel(t)
	m = typeText(m, "https://youtu.be/dQw4w9WgXcQ")
	m = press(m, tea.KeyEnter)

	st := m.ctrl.State()
	if st.Source.VideoID != "dQw4w9WgXcQ" {
		t.Errorf("expected video id, got %+v", st.Source)
	}
	if m.ctrl.Media() == nil {
		t.Error("expected media to be mounted")
	}
}

func TestLoadUnresolvedShowsNotice(t *testing.T) {
	m := newModel(t)
	m = typeText(m, "https://www.youtube.com/feed")
	m = press(m, tea.KeyEnter)

	if m.notice == "" {
		t.Error("expected a notice for an unresolved video id")
	}
	if m.ctrl.Media() != nil {
		t.Error("no media should be mounted")
	}
}

func addCaption(m Model, text, start, end string) Model {
	m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	for m.focus != FieldText {
		m = press(m, tea.KeyTab)
	}
	if text != "" {
		m = typeText(m, text)
	}
	m = press(m, tea.KeyTab)
	if start != "" {
		m = typeText(m, start)
	}
	m = press(m, tea.KeyTab)
	if end != "" {
		m = typeText(m, end)
	}
	return press(m, tea.KeyEnter)
}

func TestAddCaptionResetsInputs(t *testing.T) {
	m := newModel(t)
	m = addCaption(m, "Hello", "00:00:01", "00:00:04")

	if n := m.ctrl.State().Captions.Len(); n != 1 {
		t.Fatalf("expected 1 caption, got %d", n)
	}
	for _, f := range []Field{FieldText, FieldStart, FieldEnd} {
		if v := m.inputs[f].Value(); v != "" {
			t.Errorf("field %d not reset: %q", f, v)
		}
	}
	if m.focus != FieldText {
		t.Errorf("expected focus back on caption text, got %d", m.focus)
	}
	if !strings.Contains(m.View(), "00:00:01 - 00:00:04: Hello") {
		t.Error("caption list should show the new entry")
	}
}

func TestAddCaptionEmptyIsSilent(t *testing.T) {
	m := newModel(t)
	m = addCaption(m, "", "00:00:01", "00:00:04")

	if n := m.ctrl.State().Captions.Len(); n != 0 {
		t.Errorf("expected no captions, got %d", n)
	}
	if m.notice != "" {
		t.Errorf("empty field should be a silent no-op, got notice %q", m.notice)
	}
	if m.inputs[FieldStart].Value() != "00:00:01" {
		t.Error("rejected add should keep the inputs")
	}
}

func TestAddCaptionMalformedKeepsInputs(t *testing.T) {
	m := newModel(t)
	m = addCaption(m, "Hello", "1:2", "00:00:04")

	if n := m.ctrl.State().Captions.Len(); n != 0 {
		t.Errorf("expected no captions, got %d", n)
	}
	if m.notice == "" {
		t.Error("expected a notice for a malformed time")
	}
	if m.inputs[FieldText].Value() != "Hello" {
		t.Error("rejected add should keep the inputs")
	}
}

func TestTicksAdvancePlayback(t *testing.T) {
	m := newModel(t)
	m = typeText(m, "https://example.com/video.mp4")
	m = press(m, tea.KeyEnter)
	m = addCaption(m, "Hello", "00:00:01", "00:00:04")

	m = press(m, tea.KeyCtrlP)
	if !m.ctrl.Media().Playing() {
		t.Fatal("expected playback to start")
	}

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m = send(m, TickMsg{At: start})
	m = send(m, TickMsg{At: start.Add(2 * time.Second)})

	st := m.ctrl.State()
	if st.Position != 2 {
		t.Errorf("expected position 2, got %v", st.Position)
	}
	if st.Caption != "Hello" {
		t.Errorf("expected caption 'Hello', got %q", st.Caption)
	}
	if !strings.Contains(m.View(), "Hello") {
		t.Error("overlay should render the caption")
	}

	m = press(m, tea.KeyCtrlP)
	m = send(m, TickMsg{At: start.Add(10 * time.Second)})
	if m.ctrl.State().Position != 2 {
		t.Error("paused playback should not advance")
	}
}

func TestSeekKeys(t *testing.T) {
	m := newModel(t)
	m = typeText(m, "https://example.com/video.mp4")
	m = press(m, tea.KeyEnter)

	m = press(m, tea.KeyCtrlRight)
	m = press(m, tea.KeyCtrlRight)
	m = press(m, tea.KeyCtrlLeft)
	if pos := m.ctrl.Media().Position(); pos != 5 {
		t.Errorf("expected position 5, got %v", pos)
	}
}

type stubProber struct {
	info *source.Info
	err  error
}

func (p stubProber) Probe(ctx context.Context, src source.Source) (*source.Info, error) {
	return p.info, p.err
}

func TestProbeFailureShowsError(t *testing.T) {
	ctrl := session.NewController(nil, nil, session.Options{})
	t.Cleanup(ctrl.Close)
	m := New(ctrl, stubProber{err: errors.New("ffprobe failed")}, nil)

	m = typeText(m, "https://example.com/broken.mp4")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	if cmd == nil {
		t.Fatal("expected a probe command")
	}

	m = send(m, cmd())
	st := m.ctrl.State()
	if st.Error == "" {
		t.Error("expected playback error after failed probe")
	}
	if !strings.Contains(m.View(), st.Error) {
		t.Error("error region should render the message")
	}
}

func TestProbeDurationShown(t *testing.T) {
	ctrl := session.NewController(nil, nil, session.Options{})
	t.Cleanup(ctrl.Close)
	m := New(ctrl, stubProber{info: &source.Info{Duration: 90 * time.Second}}, nil)

	m = typeText(m, "https://example.com/video.mp4")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = send(updated.(Model), cmd())

	if !strings.Contains(m.View(), "00:00:00 / 00:01:30") {
		t.Errorf("expected clock with duration in view:\n%s", m.View())
	}
}

func TestWithURLLoadsOnInit(t *testing.T) {
	m := newModel(t).WithURL("https://example.com/video.mp4")
	m = send(m, loadURLMsg{url: m.inputs[FieldURL].Value()})
	if m.ctrl.Media() == nil {
		t.Error("expected media mounted from initial URL")
	}
}

type deadlineProber struct {
	deadline chan time.Duration
}

func (p deadlineProber) Probe(ctx context.Context, src source.Source) (*source.Info, error) {
	d, ok := ctx.Deadline()
	if !ok {
		p.deadline <- 0
	} else {
		p.deadline <- time.Until(d)
	}
	return &source.Info{Duration: time.Minute}, nil
}

func TestProbeUsesConfiguredTimeout(t *testing.T) {
	ctrl := session.NewController(nil, nil, session.Options{})
	t.Cleanup(ctrl.Close)
	p := deadlineProber{deadline: make(chan time.Duration, 1)}
	m := New(ctrl, p, nil).WithProbeTimeout(time.Minute)

	m = typeText(m, "https://example.com/video.mp4")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a probe command")
	}
	cmd()

	left := <-p.deadline
	if left <= defaultProbeTimeout || left > time.Minute {
		t.Errorf("expected a deadline about a minute out, got %v", left)
	}
}
