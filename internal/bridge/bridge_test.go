package bridge

import (
	"math"
	"testing"

	"github.com/tessro/patchdeck/internal/core"
	"github.com/tessro/patchdeck/internal/media"
)

func newTestBridge(t *testing.T, ids ...string) (*Bridge, *media.Page) {
	t.Helper()
	page := media.NewPage()
	for _, id := range ids {
		page.Add(id, 30)
	}
	return New(page, page), page
}

func playing(t *testing.T, b *Bridge, id string) bool {
	t.Helper()
	tr, ok := b.Track(id)
	if !ok {
		t.Fatalf("track %q not found", id)
	}
	return tr.Playing
}

func TestScenario(t *testing.T) {
	b, _ := newTestBridge(t, "a", "b")

	b.Dispatch(core.Play{ID: "a"})
	if !playing(t, b, "a") || playing(t, b, "b") {
		t.Fatalf("after play a: a=%v b=%v, want a playing only", playing(t, b, "a"), playing(t, b, "b"))
	}

	b.Dispatch(core.Play{ID: "b"})
	if playing(t, b, "a") || !playing(t, b, "b") {
		t.Fatalf("after play b: a=%v b=%v, want b playing only", playing(t, b, "a"), playing(t, b, "b"))
	}

	b.Dispatch(core.SetLoop{Enabled: true})
	for _, tr := range b.Tracks() {
		if !tr.Loop {
			t.Errorf("track %q loop = false, want true", tr.ID)
		}
	}

	before := b.Tracks()
	b.Dispatch(core.Play{ID: "missing"})
	after := b.Tracks()
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("play missing changed %q: %+v -> %+v", before[i].ID, before[i], after[i])
		}
	}
}

func TestPauseIsIdempotent(t *testing.T) {
	b, _ := newTestBridge(t, "a")

	b.Dispatch(core.Pause{ID: "a"})
	b.Dispatch(core.Pause{ID: "a"})
	if tr, _ := b.Track("a"); tr.State() != core.StateStopped {
		t.Errorf("State() = %q, want stopped", tr.State())
	}
}

func TestPauseOnlyTarget(t *testing.T) {
	b, page := newTestBridge(t, "a", "b")

	// Start both behind the bridge's back, as native controls could.
	for _, el := range page.All() {
		el.Play()
	}
	b.Dispatch(core.Pause{ID: "a"})

	if playing(t, b, "a") {
		t.Error("a still playing after pause")
	}
	if !playing(t, b, "b") {
		t.Error("pause a stopped b")
	}
}

func TestSeekKeepsPlayState(t *testing.T) {
	b, _ := newTestBridge(t, "a", "b")
	b.Dispatch(core.Play{ID: "a"})

	b.Dispatch(core.Seek{ID: "a", Time: 12})
	b.Dispatch(core.Seek{ID: "b", Time: 7.5})

	a, _ := b.Track("a")
	if !a.Playing || a.CurrentTime != 12 {
		t.Errorf("a = %+v, want playing at 12", a)
	}
	bt, _ := b.Track("b")
	if bt.Playing || bt.CurrentTime != 7.5 {
		t.Errorf("b = %+v, want stopped at 7.5", bt)
	}
}

func TestSeekOutOfRangeIsElementClamped(t *testing.T) {
	b, _ := newTestBridge(t, "a")
	b.Dispatch(core.Seek{ID: "a", Time: 1000})
	if tr, _ := b.Track("a"); tr.CurrentTime != 30 {
		t.Errorf("CurrentTime = %v, want 30", tr.CurrentTime)
	}
}

func TestNonFiniteSeekKeepsPosition(t *testing.T) {
	b, page := newTestBridge(t, "a")
	page.Add("u", 0)
	b.Dispatch(core.Seek{ID: "a", Time: 5})

	b.Dispatch(core.Seek{ID: "a", Time: math.NaN()})
	b.Dispatch(core.Seek{ID: "u", Time: math.Inf(1)})

	for _, tr := range b.Tracks() {
		if math.IsNaN(tr.CurrentTime) || math.IsInf(tr.CurrentTime, 0) || tr.CurrentTime < 0 {
			t.Errorf("track %s currentTime = %v, want finite and non-negative", tr.ID, tr.CurrentTime)
		}
	}
	if tr, _ := b.Track("a"); tr.CurrentTime != 5 {
		t.Errorf("a CurrentTime = %v, want 5", tr.CurrentTime)
	}
}

func TestLoopIsGlobal(t *testing.T) {
	b, page := newTestBridge(t, "a", "b", "c")
	b.Dispatch(core.Play{ID: "a"})
	b.Dispatch(core.SetLoop{Enabled: true})

	for _, tr := range b.Tracks() {
		if !tr.Loop {
			t.Errorf("track %q loop = false, want true", tr.ID)
		}
	}

	// Elements mounted later pick up the flag on the next SetLoop only.
	page.Add("d", 10)
	b.Dispatch(core.SetLoop{Enabled: false})
	for _, tr := range b.Tracks() {
		if tr.Loop {
			t.Errorf("track %q loop = true, want false", tr.ID)
		}
	}
}

func TestUnresolvedTargetsAreDropped(t *testing.T) {
	b, _ := newTestBridge(t, "a")
	b.Dispatch(core.Play{ID: "a"})

	b.Dispatch(core.Pause{ID: "nope"})
	b.Dispatch(core.Seek{ID: "nope", Time: 3})
	b.Dispatch(core.Play{ID: "nope"})

	a, _ := b.Track("a")
	if !a.Playing || a.CurrentTime != 0 {
		t.Errorf("a = %+v, want untouched and playing", a)
	}
}

func TestRemovedElementIsNotCached(t *testing.T) {
	b, page := newTestBridge(t, "a", "b")
	b.Dispatch(core.Play{ID: "a"})
	page.Remove("a")

	b.Dispatch(core.Pause{ID: "a"})
	b.Dispatch(core.Play{ID: "b"})

	if len(b.Tracks()) != 1 || !playing(t, b, "b") {
		t.Errorf("tracks = %+v, want only b playing", b.Tracks())
	}
}

func TestScrollToTop(t *testing.T) {
	b, page := newTestBridge(t, "a")
	page.ScrollTo(300)
	b.Dispatch(core.ScrollToTop{})
	if page.ScrollY() != 0 {
		t.Errorf("ScrollY() = %v, want 0", page.ScrollY())
	}

	// No viewport wired.
	headless := New(page, nil)
	headless.Dispatch(core.ScrollToTop{})
}

func TestDispatchNil(t *testing.T) {
	b, _ := newTestBridge(t, "a")
	b.Dispatch(nil)
}
