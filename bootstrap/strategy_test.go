package bootstrap

import (
	"testing"

	"github.com/kbukum/appkit/component"
	"github.com/kbukum/appkit/testutil"
)

func TestStrategySelectKeepsRegistrationOrder(t *testing.T) {
	rec := testutil.NewRecorder()
	entries := []component.Factory{
		probeFactory(rec, "c", "", newC, nil),
		probeFactory(rec, "a", "", newA, nil),
		probeFactory(rec, "b", "", newB, nil),
	}

	s := Only(component.KeyOf[*probeB](""), component.KeyOf[*probeC](""))
	got := s.Select(entries)
	if len(got) != 2 || got[0].Key != entries[0].Key || got[1].Key != entries[2].Key {
		t.Errorf("expected [c b] in registration order, got %v", got)
	}
}

func TestStrategySelects(t *testing.T) {
	a := component.KeyOf[*probeA]("")
	aBlue := component.KeyOf[*probeA]("blue")
	b := component.KeyOf[*probeB]("")

	tests := []struct {
		name     string
		strategy InitStrategy
		key      component.Key
		want     bool
	}{
		{"all", All(), a, true},
		{"none", None(), a, false},
		{"only hit", Only(a), a, true},
		{"only miss by label", Only(a), aBlue, false},
		{"only empty label means default", Only(component.Key{Type: a.Type}), a, true},
		{"deny hit", Deny(b), b, false},
		{"deny miss", Deny(b), a, true},
		{"only labels", OnlyLabels("blue"), aBlue, true},
		{"only labels miss", OnlyLabels("blue"), a, false},
		{"deny labels default", DenyLabels(""), a, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.strategy.Selects(tc.key); got != tc.want {
				t.Errorf("Selects(%s) = %v, want %v", tc.key, got, tc.want)
			}
		})
	}
}

func TestStrategyString(t *testing.T) {
	tests := []struct {
		strategy InitStrategy
		want     string
	}{
		{All(), "all"},
		{None(), "none"},
		{OnlyLabels("b", "a"), "only([a],[b])"},
		{Deny(component.KeyOf[*probeA]("x")), "deny(*bootstrap.probeA[x])"},
	}
	for _, tc := range tests {
		if got := tc.strategy.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestPhaseString(t *testing.T) {
	if PhaseShuttingDown.String() != "shutting_down" {
		t.Errorf("unexpected %q", PhaseShuttingDown.String())
	}
	if Phase(99).String() != "unknown" {
		t.Errorf("expected unknown for out of range phase")
	}
}
