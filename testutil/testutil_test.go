package testutil

import (
	"errors"
	"strings"
	"testing"

	"github.com/kbukum/applesignin/bridge"
)

func TestSurfaceRecords(t *testing.T) {
	s := NewSurface()
	s.Load("a")
	s.Load("b")
	s.StopLoading()
	s.SetHistory(true)
	s.GoBack()
	s.Close()
	s.Close()

	if got := s.Loaded(); len(got) != 2 || got[1] != "b" {
		t.Errorf("unexpected loads %v", got)
	}
	if !s.CanGoBack() || s.Backs() != 1 || s.Stops() != 1 {
		t.Error("unexpected navigation counters")
	}
	if closed, hits := s.Closed(); !closed || hits != 2 {
		t.Errorf("expected 2 closes, got %v %d", closed, hits)
	}
}

func TestSuccessRedirect(t *testing.T) {
	got := SuccessRedirect("https://ex.com/cb", "c 1", "t")("s")
	if got != "https://ex.com/cb#code=c+1&id_token=t&state=s" {
		t.Errorf("unexpected redirect %s", got)
	}
	if FixedRedirect("x")("ignored") != "x" {
		t.Error("fixed redirect should ignore state")
	}
}

func TestAwait(t *testing.T) {
	if v, err := Await(t, bridge.Resolved("ok")); v != "ok" || err != nil {
		t.Errorf("unexpected %q %v", v, err)
	}
	boom := errors.New("boom")
	if _, err := Await(t, bridge.Rejected[string](boom)); !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
	if !strings.Contains(SuccessRedirect("r", "", "")("s"), "state=s") {
		t.Error("state missing")
	}
}
