package menu

import (
	"errors"
	"sync"
	"testing"

	"github.com/starford/mysnippets/internal/apperr"
)

func TestAnchorFor(t *testing.T) {
	cases := []struct{ w, h, x, y int }{
		{1280, 800, 1265, 763},
		{15, 37, 0, 0},
		{1920, 1080, 1905, 1043},
	}
	for _, tc := range cases {
		got := AnchorFor(tc.w, tc.h)
		if got != (Point{tc.x, tc.y}) {
			t.Errorf("AnchorFor(%d, %d) = %v, want (%d, %d)", tc.w, tc.h, got, tc.x, tc.y)
		}
	}
}

func TestShowPositionsAtViewportCorner(t *testing.T) {
	h := newHarness("dark")
	h.app.Viewport = FixedViewport{Width: 1024, Height: 768}
	view, shown, err := h.ctrl.Show(h.app, h.plugin, Settings{})
	if err != nil || !shown {
		t.Fatalf("Show = %v, %v", shown, err)
	}
	if view.Anchor != (Point{X: 1009, Y: 731}) {
		t.Errorf("anchor = %v", view.Anchor)
	}
	if view.Class != MarkerClass {
		t.Errorf("class = %q", view.Class)
	}
}

func TestSingleInstance(t *testing.T) {
	h := newHarness("dark")
	first, shown, _ := h.ctrl.Show(h.app, h.plugin, Settings{})
	if !shown {
		t.Fatal("first Show should show")
	}

	h.reg.names = append(h.reg.names, "late")
	second, shown, err := h.ctrl.Show(h.app, h.plugin, Settings{AestheticStyle: true})
	if err != nil {
		t.Fatal(err)
	}
	if shown {
		t.Error("second Show should be a no-op")
	}
	if second.ID != first.ID || len(second.Rows) != len(first.Rows) || second.Style != "" {
		t.Error("second Show changed the live menu")
	}
}

func TestShowAfterDismiss(t *testing.T) {
	h := newHarness("dark")
	first, _, _ := h.ctrl.Show(h.app, h.plugin, Settings{})
	if err := h.ctrl.Dismiss(first.ID); err != nil {
		t.Fatalf("Dismiss: %v", err)
	}
	if _, ok := h.ctrl.Live(); ok {
		t.Fatal("dismissed menu still live")
	}
	second, shown, _ := h.ctrl.Show(h.app, h.plugin, Settings{})
	if !shown || second.ID == first.ID {
		t.Error("Show after dismiss should build a fresh menu")
	}
}

func TestClickThatHidesClearsLiveMenu(t *testing.T) {
	h := newHarness()
	view, _, _ := h.ctrl.Show(h.app, h.plugin, Settings{})
	_, dismissed, err := h.ctrl.Click(view.ID, Event{Pos: Point{X: -1, Y: -1}})
	if err != nil {
		t.Fatal(err)
	}
	if !dismissed {
		t.Error("click-away should report dismissal")
	}
	if _, ok := h.ctrl.Live(); ok {
		t.Error("live menu should be cleared")
	}
}

func TestAestheticStyle(t *testing.T) {
	h := newHarness()
	view, _, _ := h.ctrl.Show(h.app, h.plugin, Settings{AestheticStyle: true})
	if view.Style != aestheticStyle {
		t.Errorf("style = %q", view.Style)
	}

	h2 := newHarness()
	plain, _, _ := h2.ctrl.Show(h2.app, h2.plugin, Settings{})
	if plain.Style != "" {
		t.Errorf("style without aesthetic setting = %q", plain.Style)
	}
}

func TestShowRegistryFailure(t *testing.T) {
	h := newHarness()
	h.reg.listErr = errors.New("registry unavailable")
	_, shown, err := h.ctrl.Show(h.app, h.plugin, Settings{})
	if err == nil || shown {
		t.Fatalf("Show = %v, %v; want error", shown, err)
	}
	if _, ok := h.ctrl.Live(); ok {
		t.Error("failed Show left a live menu")
	}
}

func TestClickErrors(t *testing.T) {
	h := newHarness("dark")
	if _, _, err := h.ctrl.Click("", Event{}); !errors.Is(err, apperr.ErrNoMenu) {
		t.Errorf("click without menu: %v", err)
	}
	if err := h.ctrl.Dismiss(""); !errors.Is(err, apperr.ErrNoMenu) {
		t.Errorf("dismiss without menu: %v", err)
	}
	_, _, _ = h.ctrl.Show(h.app, h.plugin, Settings{})
	if _, _, err := h.ctrl.Click("other", Event{}); !errors.Is(err, apperr.ErrMenuMismatch) {
		t.Errorf("click with wrong id: %v", err)
	}
	if _, _, err := h.ctrl.Click("", Event{Target: "row-7/toggle"}); !errors.Is(err, apperr.ErrBadTarget) {
		t.Errorf("click on unknown target: %v", err)
	}
}

func TestClickReturnsUpdatedView(t *testing.T) {
	h := newHarness("dark")
	view, _, _ := h.ctrl.Show(h.app, h.plugin, Settings{})
	after, dismissed, err := h.ctrl.Click("", Event{Target: "row-0/toggle"})
	if err != nil || dismissed {
		t.Fatalf("Click = %v, %v", dismissed, err)
	}
	if view.Rows[0].Controls[0].Value || !after.Rows[0].Controls[0].Value {
		t.Error("view should reflect the toggled value")
	}
}

func TestConcurrentShowIsSingleton(t *testing.T) {
	h := newHarness("dark")
	var wg sync.WaitGroup
	var mu sync.Mutex
	shownCount := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, shown, _ := h.ctrl.Show(h.app, h.plugin, Settings{})
			if shown {
				mu.Lock()
				shownCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if shownCount != 1 {
		t.Errorf("menus shown = %d, want 1", shownCount)
	}
}

func TestParsePolicy(t *testing.T) {
	for name, want := range map[string]FailurePolicy{
		"":       PolicyNotify,
		"notify": PolicyNotify,
		"log":    PolicyLog,
		"silent": PolicySilent,
	} {
		got, err := ParsePolicy(name)
		if err != nil || got != want {
			t.Errorf("ParsePolicy(%q) = %d, %v", name, got, err)
		}
	}
	if _, err := ParsePolicy("shout"); err == nil {
		t.Error("expected error for unknown policy")
	}
}
