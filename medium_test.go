package coexist

import "testing"

func TestNodeSetInsertionOrder(t *testing.T) {
	s := newNodeSet()
	s.add("c", nil)
	s.add("a", nil)
	s.add("b", nil)
	s.add("a", nil) // duplicate add is a no-op

	want := []string{"c", "a", "b"}
	if len(s.order) != len(want) {
		t.Fatalf("order = %v, want %v", s.order, want)
	}
	for i := range want {
		if s.order[i] != want[i] {
			t.Fatalf("order = %v, want %v", s.order, want)
		}
	}
}

func TestNodeSetRemove(t *testing.T) {
	s := newNodeSet()
	s.add("a", nil)
	s.add("b", nil)
	s.add("c", nil)
	s.remove("b")

	if s.len() != 2 {
		t.Fatalf("len() = %d, want 2", s.len())
	}
	if s.order[0] != "a" || s.order[1] != "c" {
		t.Fatalf("order = %v, want [a c]", s.order)
	}
}

func TestWirelessMediumClearActive(t *testing.T) {
	sched := NewScheduler()
	m := NewWirelessMedium(sched)
	m.activeWiFi.add("wifi-0", nil)
	m.activeNRU.add("nru-0", nil)

	if m.activeCount() != 2 {
		t.Fatalf("activeCount() = %d, want 2", m.activeCount())
	}
	m.clearActive()
	if m.activeCount() != 0 {
		t.Fatalf("activeCount() = %d, want 0 after clearActive", m.activeCount())
	}
}

func TestWirelessMediumRecordBackoff(t *testing.T) {
	sched := NewScheduler()
	m := NewWirelessMedium(sched)
	m.recordBackoff(5, 3)
	m.recordBackoff(5, 3)
	m.recordBackoff(7, 3)

	if got := m.backoffCounts[5][3]; got != 2 {
		t.Fatalf("backoffCounts[5][3] = %d, want 2", got)
	}
	if got := m.backoffCounts[7][3]; got != 1 {
		t.Fatalf("backoffCounts[7][3] = %d, want 1", got)
	}
}

func TestWirelessMediumRegisterNodesZeroInitialises(t *testing.T) {
	sched := NewScheduler()
	m := NewWirelessMedium(sched)
	m.registerWiFiNode("wifi-0")
	m.registerNRUNode("nru-0")

	if _, ok := m.dataAirtimeWiFi["wifi-0"]; !ok {
		t.Fatalf("dataAirtimeWiFi[wifi-0] not present after registerWiFiNode")
	}
	if _, ok := m.controlAirtimeNRU["nru-0"]; !ok {
		t.Fatalf("controlAirtimeNRU[nru-0] not present after registerNRUNode")
	}
}
