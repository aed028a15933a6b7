package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vitrinhq/vitrin/pkg/header"
	"github.com/vitrinhq/vitrin/pkg/templates"
)

func press(m tea.Model, keys ...tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		m, cmd = m.Update(k)
	}
	return m, cmd
}

var (
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyLeft  = tea.KeyMsg{Type: tea.KeyLeft}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyQuit  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}
)

func newPlayground(t *testing.T) HeaderModel {
	t.Helper()
	tpl, err := templates.Lookup(templates.DefaultID)
	if err != nil {
		t.Fatal(err)
	}
	return NewHeaderModel(tpl)
}

func TestHeaderModelStartsWithCollision(t *testing.T) {
	m := newPlayground(t)

	if m.Logo() != header.LogoHeaderLeft || m.Title() != header.TitleLeft || m.Tier() != header.SizeMedium {
		t.Fatalf("start = %s/%s/%s", m.Logo(), m.Title(), m.Tier())
	}
	l := m.Frame().Layout
	if !l.IsCollisionLeft || l.TitleAnchor != header.AnchorCenter {
		t.Errorf("layout = %+v, want left collision moved to center", l)
	}
}

func TestHeaderModelCycles(t *testing.T) {
	m := newPlayground(t)

	// Logo to header-center, then title to center: title moves right.
	next, _ := press(m, keyRight, keyDown, keyRight)
	hm := next.(HeaderModel)
	if hm.Logo() != header.LogoHeaderCenter || hm.Title() != header.TitleCenter {
		t.Fatalf("selection = %s/%s", hm.Logo(), hm.Title())
	}
	if got := hm.Frame().Layout.TitleAnchor; got != header.AnchorRight {
		t.Errorf("title anchor = %s, want right", got)
	}

	// Size row wraps backwards from small to xlarge.
	next, _ = press(hm, keyDown, keyLeft, keyLeft)
	hm = next.(HeaderModel)
	if hm.Tier() != header.SizeXLarge {
		t.Errorf("tier = %s, want xlarge", hm.Tier())
	}
	if hm.Frame().LogoHeight != 60 {
		t.Errorf("logo height = %d", hm.Frame().LogoHeight)
	}

	// Cursor stays in range.
	next, _ = press(hm, keyDown, keyDown, keyUp, keyUp, keyUp, keyUp)
	if c := next.(HeaderModel).Cursor; c != 0 {
		t.Errorf("cursor = %d, want 0", c)
	}
}

func TestHeaderModelView(t *testing.T) {
	view := newPlayground(t).View()
	for _, want := range []string{"Header Playground", "header-left", "logo 36px", "title moved to center"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestHeaderModelQuit(t *testing.T) {
	_, cmd := press(newPlayground(t), keyQuit)
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}
