package models

import "time"

// Extraction is the result of reading one log file: the resource series and
// the two restart series. Times, CPU and Memory share one index space, as do
// each restart time/value pair. Treat it as read-only once returned.
type Extraction struct {
	Times           []time.Time  `json:"times" msgpack:"times"`
	CPU             []float64    `json:"cpu" msgpack:"cpu"`
	Memory          []float64    `json:"memory" msgpack:"memory"`
	CPURestartTimes []time.Time  `json:"cpuRestartTimes" msgpack:"cpuRestartTimes"`
	CPURestartVals  []float64    `json:"cpuRestartVals" msgpack:"cpuRestartVals"`
	MemRestartTimes []time.Time  `json:"memRestartTimes" msgpack:"memRestartTimes"`
	MemRestartVals  []float64    `json:"memRestartVals" msgpack:"memRestartVals"`
	Stats           ExtractStats `json:"stats" msgpack:"stats"`
}

// ExtractStats counts how each line of the file was classified.
// Lines - Skipped always equals the sum of the remaining counters.
type ExtractStats struct {
	Lines       int `json:"lines" msgpack:"lines"`
	Skipped     int `json:"skipped" msgpack:"skipped"`
	Samples     int `json:"samples" msgpack:"samples"`
	CPURestarts int `json:"cpuRestarts" msgpack:"cpuRestarts"`
	MemRestarts int `json:"memRestarts" msgpack:"memRestarts"`
	Ignored     int `json:"ignored" msgpack:"ignored"`
	Dropped     int `json:"dropped" msgpack:"dropped"`
}

// TimeRange represents a time window.
type TimeRange struct {
	Start time.Time `json:"start" msgpack:"start"`
	End   time.Time `json:"end" msgpack:"end"`
}

// NewExtraction creates a new empty Extraction.
func NewExtraction() *Extraction {
	return &Extraction{
		Times:           make([]time.Time, 0),
		CPU:             make([]float64, 0),
		Memory:          make([]float64, 0),
		CPURestartTimes: make([]time.Time, 0),
		CPURestartVals:  make([]float64, 0),
		MemRestartTimes: make([]time.Time, 0),
		MemRestartVals:  make([]float64, 0),
	}
}

// Samples returns the resource series as a slice of samples.
func (e *Extraction) Samples() []ResourceSample {
	out := make([]ResourceSample, len(e.Times))
	for i := range e.Times {
		out[i] = ResourceSample{Time: e.Times[i], CPUPercent: e.CPU[i], MemoryMB: e.Memory[i]}
	}
	return out
}

// CPURestarts returns the CPU restart markers.
func (e *Extraction) CPURestarts() []RestartEvent {
	return zipRestarts(e.CPURestartTimes, e.CPURestartVals)
}

// MemRestarts returns the memory restart markers.
func (e *Extraction) MemRestarts() []RestartEvent {
	return zipRestarts(e.MemRestartTimes, e.MemRestartVals)
}

// TimeRange returns the span covered by the resource series, or nil when empty.
func (e *Extraction) TimeRange() *TimeRange {
	if len(e.Times) == 0 {
		return nil
	}
	return &TimeRange{Start: e.Times[0], End: e.Times[len(e.Times)-1]}
}

func zipRestarts(times []time.Time, vals []float64) []RestartEvent {
	out := make([]RestartEvent, len(times))
	for i := range times {
		out[i] = RestartEvent{Time: times[i], Value: vals[i]}
	}
	return out
}
