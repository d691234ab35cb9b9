package coexist

//
// Aggregate statistics
//

// TechStats holds the per-technology outputs of one simulation run.
type TechStats struct {
	ChannelOccupancy     float64
	ChannelEfficiency    float64
	CollisionProbability float64
}

// RunStats is the full set of outputs [Simulate] reports for one run.
type RunStats struct {
	WiFi TechStats
	NRU  TechStats

	TotalChannelOccupancy  float64
	TotalNetworkEfficiency float64
	JainFairnessIndex      float64
	JointAirtimeFairness   float64
}

func techStats(dataAirtime, controlAirtime, succeeded, failed, totalSimUS int64) TechStats {
	occupancy := safeDiv(float64(dataAirtime+controlAirtime), float64(totalSimUS))
	efficiency := safeDiv(float64(dataAirtime), float64(totalSimUS))
	var collision float64
	if denom := succeeded + failed; denom > 0 {
		collision = float64(failed) / float64(denom)
	}
	return TechStats{
		ChannelOccupancy:     occupancy,
		ChannelEfficiency:    efficiency,
		CollisionProbability: collision,
	}
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// jainFairness computes Jain's fairness index between two occupancy
// shares, defined as 1.0 when both are zero (perfectly "fair" absence of
// traffic rather than an undefined 0/0).
func jainFairness(oWiFi, oNRU float64) float64 {
	if oWiFi == 0 && oNRU == 0 {
		return 1.0
	}
	sum := oWiFi + oNRU
	sq := oWiFi*oWiFi + oNRU*oNRU
	return (sum * sum) / (2 * sq)
}

// sumCounter totals a per-node counter map.
func sumCounter(m map[string]int64) int64 {
	var total int64
	for _, v := range m {
		total += v
	}
	return total
}

// computeRunStats folds raw medium counters into the reported [RunStats]
// for a run of totalSimUS virtual microseconds.
func computeRunStats(m *WirelessMedium, totalSimUS int64) RunStats {
	wifi := techStats(
		sumCounter(m.dataAirtimeWiFi), sumCounter(m.controlAirtimeWiFi),
		m.succeeded[TechWiFi], m.failed[TechWiFi], totalSimUS,
	)
	nru := techStats(
		sumCounter(m.dataAirtimeNRU), sumCounter(m.controlAirtimeNRU),
		m.succeeded[TechNRU], m.failed[TechNRU], totalSimUS,
	)

	jain := jainFairness(wifi.ChannelOccupancy, nru.ChannelOccupancy)
	total := wifi.ChannelOccupancy + nru.ChannelOccupancy

	return RunStats{
		WiFi:                   wifi,
		NRU:                    nru,
		TotalChannelOccupancy:  total,
		TotalNetworkEfficiency: wifi.ChannelEfficiency + nru.ChannelEfficiency,
		JainFairnessIndex:      jain,
		JointAirtimeFairness:   jain * total,
	}
}
