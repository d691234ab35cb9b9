package coexist

//
// Run entry point
//
// Simulate wires one population of contenders onto a fresh Scheduler and
// WirelessMedium, runs it to its time horizon, and reports the resulting
// statistics. It is the only exported constructor most callers need: a
// parameter sweep is just repeated calls to Simulate with different
// Config values (see cmd/sweep).
//

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"strconv"
)

// nullLogger discards everything; it is Simulate's default when Config.Logger
// is nil, kept separate from internal.NullLogger to avoid this package
// importing its own internal subpackage.
type nullLogger struct{}

func (nullLogger) Debugf(string, ...any) {}
func (nullLogger) Infof(string, ...any)  {}
func (nullLogger) Warnf(string, ...any)  {}

// Config is the full set of inputs to one Simulate run.
type Config struct {
	NWiFi           int
	NNRU            int
	SimulationTimeS int64
	NRUMode         NRUMode
	WiFi            WiFiConfig
	NRU             NRUConfig
	Seed            int64

	// OutputCSVPath, if non-empty, has one row appended to it per call
	// (with a header row written first if the file is empty or absent).
	OutputCSVPath string

	Logger Logger
}

// Simulate runs one coexistence simulation to completion and returns its
// aggregate statistics. If cfg.OutputCSVPath is non-empty, the same
// statistics are also appended to it as a CSV row.
func Simulate(cfg Config) (RunStats, error) {
	if cfg.NRUMode != NRUModeReservationSignal && cfg.NRUMode != NRUModeGap {
		return RunStats{}, ErrInvalidNRUMode
	}
	if _, err := NewRadioTimings(cfg.WiFi.DataSizeBytes, cfg.WiFi.MCS); err != nil {
		return RunStats{}, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = nullLogger{}
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	sched := NewScheduler()
	medium := NewWirelessMedium(sched)

	logger.Infof("coexist: starting run: %d wifi, %d nru, mode=%s, seed=%d", cfg.NWiFi, cfg.NNRU, cfg.NRUMode, cfg.Seed)

	for i := 0; i < cfg.NWiFi; i++ {
		name := fmt.Sprintf("wifi-%d", i)
		NewWiFiStation(sched, medium, name, cfg.WiFi, rng, cfg.NWiFi)
	}
	for i := 0; i < cfg.NNRU; i++ {
		name := fmt.Sprintf("nru-%d", i)
		NewNRUStation(sched, medium, name, cfg.NRU, cfg.NRUMode, rng, cfg.NWiFi)
	}

	horizonUS := cfg.SimulationTimeS * 1_000_000
	sched.Run(horizonUS)

	stats := computeRunStats(medium, horizonUS)
	logger.Infof("coexist: run complete: wifi_occupancy=%.4f nru_occupancy=%.4f jain=%.4f",
		stats.WiFi.ChannelOccupancy, stats.NRU.ChannelOccupancy, stats.JainFairnessIndex)

	if cfg.OutputCSVPath != "" {
		if err := appendRunStatsCSV(cfg, stats); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

// csvHeader is the legacy 13-column schema downstream consumers parse by
// position: simulation_seed, wifi_node_count, nru_node_count, then the
// per-technology occupancy/efficiency/collision triples, then the three
// joint metrics.
var csvHeader = []string{
	"simulation_seed", "wifi_node_count", "nru_node_count",
	"wifi_channel_occupancy", "wifi_channel_efficiency", "wifi_collision_probability",
	"nru_channel_occupancy", "nru_channel_efficiency", "nru_collision_probability",
	"total_channel_occupancy", "total_network_efficiency",
	"jain's_fairness_index", "joint_airtime_fairness",
}

func appendRunStatsCSV(cfg Config, stats RunStats) error {
	needsHeader := true
	if fi, err := os.Stat(cfg.OutputCSVPath); err == nil && fi.Size() > 0 {
		needsHeader = false
	}

	f, err := os.OpenFile(cfg.OutputCSVPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("coexist: opening output csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if needsHeader {
		if err := w.Write(csvHeader); err != nil {
			return err
		}
	}
	row := []string{
		strconv.FormatInt(cfg.Seed, 10), strconv.Itoa(cfg.NWiFi), strconv.Itoa(cfg.NNRU),
		formatDouble(stats.WiFi.ChannelOccupancy), formatDouble(stats.WiFi.ChannelEfficiency), formatCollisionProbability(stats.WiFi.CollisionProbability),
		formatDouble(stats.NRU.ChannelOccupancy), formatDouble(stats.NRU.ChannelEfficiency), formatCollisionProbability(stats.NRU.CollisionProbability),
		formatDouble(stats.TotalChannelOccupancy), formatDouble(stats.TotalNetworkEfficiency),
		formatDouble(stats.JainFairnessIndex), formatDouble(stats.JointAirtimeFairness),
	}
	return w.Write(row)
}

// formatDouble writes v at full precision, matching every non-collision
// column of the legacy schema.
func formatDouble(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatCollisionProbability is the one column the legacy schema fixes
// at 4 decimal places.
func formatCollisionProbability(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
