// Command sweep runs the coexistence engine across a range of node
// counts and seeds, reporting median and 90th-percentile occupancy per
// technology at each point.
package main

import (
	"flag"
	"fmt"

	"github.com/apex/log"
	coexist "github.com/betmutema/Final-Year-Project"
	"github.com/betmutema/Final-Year-Project/cmd/internal/optional"
	"github.com/betmutema/Final-Year-Project/internal"
	"github.com/montanaflynn/stats"
)

func main() {
	minNodes := flag.Int("min-nodes", 1, "smallest Wi-Fi/NR-U node count to sweep")
	maxNodes := flag.Int("max-nodes", 5, "largest Wi-Fi/NR-U node count to sweep")
	seeds := flag.Int("seeds", 5, "number of seeds to run per node count")
	mode := flag.String("nru-mode", "rs", `NR-U sub-mode: "rs" or "gap"`)
	simTime := flag.Int64("sim-time-s", 10, "simulated seconds per run")
	out := flag.String("out", "sweep.csv", "CSV output path")
	stopAfterFirstStable := flag.Bool("stop-after-first-stable", false,
		"stop sweeping once wifi and nru occupancy are both within 1% of the previous node count")
	quiet := flag.Bool("quiet", false, "suppress per-run progress logging")
	flag.Parse()

	var logger coexist.Logger = log.Log
	if *quiet {
		logger = &internal.NullLogger{}
	}

	var previous optional.Value[coexist.RunStats]

	for n := *minNodes; n <= *maxNodes; n++ {
		wifiOccupancy := make([]float64, 0, *seeds)
		nruOccupancy := make([]float64, 0, *seeds)

		for seed := 0; seed < *seeds; seed++ {
			cfg := coexist.Config{
				NWiFi:           n,
				NNRU:            n,
				SimulationTimeS: *simTime,
				NRUMode:         coexist.NRUMode(*mode),
				WiFi:            coexist.WiFiConfig{DataSizeBytes: 1472, MinCW: 15, MaxCW: 63, RetryLimit: 7, MCS: 7},
				NRU:             defaultSweepNRUConfig(),
				Seed:            int64(n*1000 + seed),
				OutputCSVPath:   *out,
				Logger:          logger,
			}
			run, err := coexist.Simulate(cfg)
			if err != nil {
				log.WithError(err).Fatal("coexist.Simulate")
			}
			wifiOccupancy = append(wifiOccupancy, run.WiFi.ChannelOccupancy)
			nruOccupancy = append(nruOccupancy, run.NRU.ChannelOccupancy)
		}

		wifiMedian := coexist.Must1(stats.Median(wifiOccupancy))
		nruMedian := coexist.Must1(stats.Median(nruOccupancy))
		wifiP90 := coexist.Must1(stats.Percentile(wifiOccupancy, 90))
		nruP90 := coexist.Must1(stats.Percentile(nruOccupancy, 90))

		fmt.Printf("n=%d wifi_occupancy(median=%.4f p90=%.4f) nru_occupancy(median=%.4f p90=%.4f)\n",
			n, wifiMedian, wifiP90, nruMedian, nruP90)

		if *stopAfterFirstStable && !previous.Empty() {
			prev := previous.Unwrap()
			if absDiff(prev.WiFi.ChannelOccupancy, wifiMedian) < 0.01 && absDiff(prev.NRU.ChannelOccupancy, nruMedian) < 0.01 {
				log.Infof("coexist: occupancy stabilised at n=%d, stopping sweep early", n)
				break
			}
		}
		previous = optional.Some(coexist.RunStats{
			WiFi: coexist.TechStats{ChannelOccupancy: wifiMedian},
			NRU:  coexist.TechStats{ChannelOccupancy: nruMedian},
		})
	}
}

func defaultSweepNRUConfig() coexist.NRUConfig {
	cfg := coexist.DefaultNRUConfig()
	cfg.MinCW = 15
	cfg.MaxCW = 63
	cfg.MinSyncDesyncUS = 0
	cfg.MaxSyncDesyncUS = 1000
	return cfg
}

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
