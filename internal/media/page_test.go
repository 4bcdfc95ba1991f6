package media

import (
	"math"
	"testing"

	"github.com/tessro/patchdeck/internal/core"
)

func TestPageLookup(t *testing.T) {
	p := NewPage()
	p.Add("a", 10)
	p.Add("b", 0)

	if _, ok := p.Lookup("a"); !ok {
		t.Error("Lookup(a) = false, want true")
	}
	if _, ok := p.Lookup("missing"); ok {
		t.Error("Lookup(missing) = true, want false")
	}
	if got := len(p.All()); got != 2 {
		t.Errorf("len(All()) = %d, want 2", got)
	}

	if !p.Remove("a") {
		t.Error("Remove(a) = false, want true")
	}
	if p.Remove("a") {
		t.Error("second Remove(a) = true, want false")
	}
	if ids := p.IDs(); len(ids) != 1 || ids[0] != "b" {
		t.Errorf("IDs() = %v, want [b]", ids)
	}
}

func TestPageAddReplaces(t *testing.T) {
	p := NewPage()
	first := p.Add("a", 10)
	first.Play()
	p.Add("a", 20)

	el, _ := p.Lookup("a")
	if !el.Paused() {
		t.Error("re-mounted element should start paused")
	}
	if el.Duration() != 20 {
		t.Errorf("Duration() = %v, want 20", el.Duration())
	}
	if len(p.All()) != 1 {
		t.Errorf("len(All()) = %d, want 1", len(p.All()))
	}
}

func TestElementSeekClamps(t *testing.T) {
	p := NewPage()
	el := p.Add("a", 10)

	el.SetCurrentTime(25)
	if el.CurrentTime() != 10 {
		t.Errorf("CurrentTime() = %v, want 10", el.CurrentTime())
	}
	el.SetCurrentTime(-3)
	if el.CurrentTime() != 0 {
		t.Errorf("CurrentTime() = %v, want 0", el.CurrentTime())
	}

	unknown := p.Add("u", 0)
	unknown.SetCurrentTime(99)
	if unknown.CurrentTime() != 99 {
		t.Errorf("CurrentTime() = %v, want 99 for unknown duration", unknown.CurrentTime())
	}
}

func TestElementSeekIgnoresNonFinite(t *testing.T) {
	p := NewPage()
	known := p.Add("a", 10)
	unknown := p.Add("u", 0)
	known.SetCurrentTime(4)
	unknown.SetCurrentTime(4)

	var signals int
	p.OnTimeUpdate(func(core.MediaElement) { signals++ })

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		known.SetCurrentTime(v)
		unknown.SetCurrentTime(v)
	}

	if known.CurrentTime() != 4 {
		t.Errorf("known CurrentTime() = %v, want 4", known.CurrentTime())
	}
	if unknown.CurrentTime() != 4 {
		t.Errorf("unknown CurrentTime() = %v, want 4", unknown.CurrentTime())
	}
	if signals != 0 {
		t.Errorf("time updates = %d, want 0 for ignored seeks", signals)
	}
}

func TestAdvance(t *testing.T) {
	p := NewPage()
	a := p.Add("a", 10)
	b := p.Add("b", 10)
	a.Play()

	var got []core.PlayheadReport
	unsubscribe := p.OnTimeUpdate(func(el core.MediaElement) {
		got = append(got, core.PlayheadReport{ID: el.ID(), Time: el.CurrentTime()})
	})

	p.Advance(1.5)
	p.Advance(0)

	if len(got) != 1 || got[0].ID != "a" || got[0].Time != 1.5 {
		t.Errorf("reports = %v, want [{a 1.5}]", got)
	}
	if b.CurrentTime() != 0 {
		t.Errorf("paused element moved to %v", b.CurrentTime())
	}

	unsubscribe()
	p.Advance(1)
	if len(got) != 1 {
		t.Errorf("got %d reports after unsubscribe, want 1", len(got))
	}
}

func TestAdvanceEndOfMedia(t *testing.T) {
	p := NewPage()
	once := p.Add("once", 4)
	looped := p.Add("looped", 4)
	looped.SetLoop(true)
	once.Play()
	looped.Play()

	p.Advance(5)

	if !once.Paused() || once.CurrentTime() != 4 {
		t.Errorf("once: paused=%v time=%v, want paused at 4", once.Paused(), once.CurrentTime())
	}
	if looped.Paused() || looped.CurrentTime() != 1 {
		t.Errorf("looped: paused=%v time=%v, want playing at 1", looped.Paused(), looped.CurrentTime())
	}

	once.Play()
	if once.CurrentTime() != 0 {
		t.Errorf("replaying an ended element should restart, got %v", once.CurrentTime())
	}
}

func TestViewport(t *testing.T) {
	p := NewPage()
	p.ScrollTo(420)
	if p.ScrollY() != 420 {
		t.Errorf("ScrollY() = %v, want 420", p.ScrollY())
	}
	p.ScrollToTop()
	if p.ScrollY() != 0 {
		t.Errorf("ScrollY() = %v, want 0", p.ScrollY())
	}
}
