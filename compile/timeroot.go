package compile

import "github.com/katalvlaran/patchcore/artifact"

// timeRootBlockID is the synthesized TimeRoot block's ID when a patch omits
// one.
const timeRootBlockID = "__timeRoot"

// Canonical TimeRoot outputs and the buses they auto-publish to when a
// TimeRoot is synthesized.
const (
	outSystemTime = "systemTime"
	outCycleT     = "cycleT"
	outPhase      = "phase"
	outWrap       = "wrap"
	outCycleIndex = "cycleIndex"
	outEnergy     = "energy"
)

// canonicalAutoPublishBuses maps synthesized TimeRoot outputs to the bus
// IDs they are auto-published to: "phaseA", "pulse", "energy".
var canonicalAutoPublishBuses = map[string]string{
	outPhase:  "phaseA",
	outWrap:   "pulse",
	outEnergy: "energy",
}

func timeRootOutputs() map[string]artifact.Kind {
	return map[string]artifact.Kind{
		outSystemTime: artifact.KindSignalTime,
		outCycleT:     artifact.KindSignalFloat,
		outPhase:      artifact.KindSignalPhase,
		outWrap:       artifact.KindSignalUnit,
		outCycleIndex: artifact.KindSignalInt,
		outEnergy:     artifact.KindSignalFloat,
	}
}

// timeRootCycleSeconds is the default cycle length for cycleT/phase/cycleIndex.
const timeRootCycleSeconds = 1000.0

func timeRootCompile(_ map[string]artifact.Artifact, _ map[string]artifact.Artifact, _ artifact.Ctx) map[string]artifact.Artifact {
	return map[string]artifact.Artifact{
		outSystemTime: artifact.NewSignalTime(func(t float64, _ artifact.Ctx) float64 { return t }),
		outCycleT: artifact.NewSignalFloat(func(t float64, _ artifact.Ctx) float64 {
			return mod(t, timeRootCycleSeconds)
		}),
		outPhase: artifact.NewSignalPhase(func(t float64, _ artifact.Ctx) float64 {
			return mod(t, timeRootCycleSeconds) / timeRootCycleSeconds
		}),
		outWrap: artifact.NewSignalUnit(func(t float64, _ artifact.Ctx) float64 {
			return mod(t, timeRootCycleSeconds) / timeRootCycleSeconds
		}),
		outCycleIndex: artifact.NewSignalInt(func(t float64, _ artifact.Ctx) int64 {
			return int64(t / timeRootCycleSeconds)
		}),
		outEnergy: artifact.NewSignalFloat(func(t float64, _ artifact.Ctx) float64 {
			return 1.0 // constant baseline energy; patches refine via lenses/buses.
		}),
	}
}

func mod(a, b float64) float64 {
	m := a - b*float64(int64(a/b))
	if m < 0 {
		m += b
	}
	return m
}
