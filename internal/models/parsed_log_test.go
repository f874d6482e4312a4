package models

import (
	"testing"
	"time"
)

func TestExtractionAccessors(t *testing.T) {
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	e := NewExtraction()
	e.Times = []time.Time{base, base.Add(5 * time.Second)}
	e.CPU = []float64{55, 90}
	e.Memory = []float64{300, 520}
	e.CPURestartTimes = []time.Time{base.Add(5 * time.Second)}
	e.CPURestartVals = []float64{90}
	e.MemRestartTimes = []time.Time{base, base.Add(5 * time.Second)}
	e.MemRestartVals = []float64{300, 520}

	samples := e.Samples()
	if len(samples) != 2 {
		t.Fatalf("Expected 2 samples, got %d", len(samples))
	}
	want := ResourceSample{Time: base.Add(5 * time.Second), CPUPercent: 90, MemoryMB: 520}
	if samples[1] != want {
		t.Errorf("Expected %+v, got %+v", want, samples[1])
	}

	cpu := e.CPURestarts()
	if len(cpu) != 1 || cpu[0] != (RestartEvent{Time: base.Add(5 * time.Second), Value: 90}) {
		t.Errorf("unexpected cpu restarts: %+v", cpu)
	}
	mem := e.MemRestarts()
	if len(mem) != 2 || mem[0].Value != 300 || !mem[0].Time.Equal(base) {
		t.Errorf("unexpected memory restarts: %+v", mem)
	}
}

func TestExtractionAccessorsEmpty(t *testing.T) {
	e := NewExtraction()
	if len(e.Samples()) != 0 || len(e.CPURestarts()) != 0 || len(e.MemRestarts()) != 0 {
		t.Error("Expected empty accessors for an empty extraction")
	}
	if e.TimeRange() != nil {
		t.Error("Expected nil time range")
	}
}
