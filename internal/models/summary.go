package models

// Summary condenses an Extraction for the summary command and the viewer.
type Summary struct {
	Lines           int        `json:"lines"`
	Skipped         int        `json:"skipped"`
	Samples         int        `json:"samples"`
	CPURestarts     int        `json:"cpuRestarts"`
	MemRestarts     int        `json:"memRestarts"`
	TimeRange       *TimeRange `json:"timeRange,omitempty"`
	PeakCPU         float64    `json:"peakCpu"`
	PeakMemory      float64    `json:"peakMemory"`
	CPUThreshold    float64    `json:"cpuThreshold"`
	MemoryThreshold float64    `json:"memoryThreshold"`
	CPUAbove        int        `json:"cpuAboveThreshold"`
	MemoryAbove     int        `json:"memoryAboveThreshold"`
}

// Summarize computes peaks and threshold crossings. A sample counts as above
// a threshold only when strictly greater, matching the monitor's trigger.
func Summarize(e *Extraction, cpuThreshold, memThreshold float64) Summary {
	s := Summary{
		Lines:           e.Stats.Lines,
		Skipped:         e.Stats.Skipped,
		Samples:         len(e.Times),
		CPURestarts:     len(e.CPURestartVals),
		MemRestarts:     len(e.MemRestartVals),
		TimeRange:       e.TimeRange(),
		CPUThreshold:    cpuThreshold,
		MemoryThreshold: memThreshold,
	}
	for i, sample := range e.Samples() {
		if i == 0 || sample.CPUPercent > s.PeakCPU {
			s.PeakCPU = sample.CPUPercent
		}
		if i == 0 || sample.MemoryMB > s.PeakMemory {
			s.PeakMemory = sample.MemoryMB
		}
		if sample.CPUPercent > cpuThreshold {
			s.CPUAbove++
		}
		if sample.MemoryMB > memThreshold {
			s.MemoryAbove++
		}
	}
	return s
}
