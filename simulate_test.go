package coexist

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func baseWiFiConfig() WiFiConfig {
	return WiFiConfig{DataSizeBytes: 1472, MinCW: 15, MaxCW: 63, RetryLimit: 7, MCS: 7}
}

func baseNRUConfig() NRUConfig {
	cfg := DefaultNRUConfig()
	cfg.MinCW = 15
	cfg.MaxCW = 63
	cfg.MinSyncDesyncUS = 0
	cfg.MaxSyncDesyncUS = 0
	return cfg
}

func TestSimulateRejectsInvalidNRUMode(t *testing.T) {
	_, err := Simulate(Config{
		NWiFi: 1, NNRU: 0, SimulationTimeS: 1, NRUMode: "bogus",
		WiFi: baseWiFiConfig(), NRU: baseNRUConfig(), Seed: 1,
	})
	if err != ErrInvalidNRUMode {
		t.Fatalf("err = %v, want ErrInvalidNRUMode", err)
	}
}

// TestSimulateRejectsInvalidMCS checks that a bad MCS index is reported
// as an ordinary error before any station is constructed, rather than
// panicking partway through a run.
func TestSimulateRejectsInvalidMCS(t *testing.T) {
	cfg := baseWiFiConfig()
	cfg.MCS = 99
	_, err := Simulate(Config{
		NWiFi: 1, NNRU: 0, SimulationTimeS: 1, NRUMode: NRUModeReservationSignal,
		WiFi: cfg, NRU: baseNRUConfig(), Seed: 1,
	})
	if err == nil {
		t.Fatalf("err = nil, want a non-nil error for mcs=99")
	}
}

// S1: a single, uncontended Wi-Fi station never collides and dominates
// the channel.
func TestSimulateSingleWiFiStationNoCollisions(t *testing.T) {
	run, err := Simulate(Config{
		NWiFi: 1, NNRU: 0, SimulationTimeS: 10, NRUMode: NRUModeReservationSignal,
		WiFi: baseWiFiConfig(), NRU: baseNRUConfig(), Seed: 42,
	})
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if run.WiFi.CollisionProbability != 0 {
		t.Fatalf("WiFi.CollisionProbability = %v, want 0", run.WiFi.CollisionProbability)
	}
	if run.WiFi.ChannelOccupancy <= 0.9 {
		t.Fatalf("WiFi.ChannelOccupancy = %v, want > 0.9", run.WiFi.ChannelOccupancy)
	}
}

// Isolation invariant: with n_nru=0, every nru_* output is exactly zero.
func TestSimulateIsolationWhenNoNRU(t *testing.T) {
	run, err := Simulate(Config{
		NWiFi: 3, NNRU: 0, SimulationTimeS: 5, NRUMode: NRUModeGap,
		WiFi: baseWiFiConfig(), NRU: baseNRUConfig(), Seed: 7,
	})
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	want := TechStats{}
	if diff := cmp.Diff(want, run.NRU); diff != "" {
		t.Fatalf("NRU stats not all-zero with n_nru=0 (-want +got):\n%s", diff)
	}
}

// S2: five Wi-Fi stations and five rs-mode gNBs share the channel
// competitively; neither technology starves the other.
func TestSimulateSymmetricRSMode(t *testing.T) {
	cfg := Config{
		NWiFi: 5, NNRU: 5, SimulationTimeS: 10, NRUMode: NRUModeReservationSignal,
		WiFi: baseWiFiConfig(), NRU: baseNRUConfig(), Seed: 42,
	}
	run, err := Simulate(cfg)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if run.WiFi.ChannelOccupancy <= 0.1 || run.NRU.ChannelOccupancy <= 0.1 {
		t.Fatalf("expected both technologies to get meaningful airtime, got wifi=%v nru=%v",
			run.WiFi.ChannelOccupancy, run.NRU.ChannelOccupancy)
	}
	if run.TotalChannelOccupancy > 1.0 {
		t.Fatalf("TotalChannelOccupancy = %v, want <= 1.0", run.TotalChannelOccupancy)
	}
}

// Invariant 4 / S6: two runs with identical inputs produce bit-identical
// statistics.
func TestSimulateDeterministic(t *testing.T) {
	cfg := Config{
		NWiFi: 5, NNRU: 5, SimulationTimeS: 5, NRUMode: NRUModeGap,
		WiFi: baseWiFiConfig(), NRU: baseNRUConfig(), Seed: 42,
	}
	first, err := Simulate(cfg)
	if err != nil {
		t.Fatalf("Simulate (first): %v", err)
	}
	second, err := Simulate(cfg)
	if err != nil {
		t.Fatalf("Simulate (second): %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("two runs with identical inputs diverged (-first +second):\n%s", diff)
	}
}

func TestSimulateWritesCSVWithHeader(t *testing.T) {
	path := t.TempDir() + "/run.csv"
	cfg := Config{
		NWiFi: 2, NNRU: 1, SimulationTimeS: 1, NRUMode: NRUModeReservationSignal,
		WiFi: baseWiFiConfig(), NRU: baseNRUConfig(), Seed: 1, OutputCSVPath: path,
	}
	if _, err := Simulate(cfg); err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if _, err := Simulate(cfg); err != nil {
		t.Fatalf("Simulate (second append): %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("os.ReadFile: %v", err)
	}
	lines := splitLines(string(contents))
	if len(lines) != 3 { // header + two data rows
		t.Fatalf("got %d lines, want 3 (header + 2 rows): %q", len(lines), contents)
	}
	const wantHeader = "simulation_seed,wifi_node_count,nru_node_count," +
		"wifi_channel_occupancy,wifi_channel_efficiency,wifi_collision_probability," +
		"nru_channel_occupancy,nru_channel_efficiency,nru_collision_probability," +
		"total_channel_occupancy,total_network_efficiency," +
		"jain's_fairness_index,joint_airtime_fairness"
	if lines[0] != wantHeader {
		t.Fatalf("header = %q, want %q", lines[0], wantHeader)
	}
}

// TestSimulateCSVCollisionProbabilityIsFourDecimals pins the one column
// the legacy schema fixes at 4 decimal places, leaving every other
// numeric column at full precision.
func TestSimulateCSVCollisionProbabilityIsFourDecimals(t *testing.T) {
	path := t.TempDir() + "/run.csv"
	cfg := Config{
		NWiFi: 1, NNRU: 0, SimulationTimeS: 1, NRUMode: NRUModeReservationSignal,
		WiFi: baseWiFiConfig(), NRU: baseNRUConfig(), Seed: 1, OutputCSVPath: path,
	}
	if _, err := Simulate(cfg); err != nil {
		t.Fatalf("Simulate: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("os.ReadFile: %v", err)
	}
	lines := splitLines(string(contents))
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2 (header + 1 row): %q", len(lines), contents)
	}
	fields := splitComma(lines[1])
	if len(fields) != 13 {
		t.Fatalf("got %d fields, want 13: %q", len(fields), lines[1])
	}
	collisionField := fields[5] // wifi_collision_probability
	if dot := indexByte(collisionField, '.'); dot == -1 || len(collisionField)-dot-1 != 4 {
		t.Fatalf("wifi_collision_probability = %q, want exactly 4 decimal places", collisionField)
	}
}

func splitComma(s string) []string {
	var fields []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == ',' {
			fields = append(fields, s[start:i])
			start = i + 1
		}
	}
	fields = append(fields, s[start:])
	return fields
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			if i > start {
				lines = append(lines, s[start:i])
			}
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
