// Package models contains domain types for the self-healing recovery graph.
package models

import "time"

// Event names written by the self-healing monitor into the message object.
const (
	EventResourceUsage = "resource_usage"
	EventHighCPU       = "high_cpu"
	EventPM2Restart    = "pm2_restart"
	EventHighMemory    = "high_memory"
)

// EventKind is the classification of a parsed log line.
type EventKind string

const (
	KindResourceUsage EventKind = "resource_usage"
	KindCPURestart    EventKind = "cpu_restart"
	KindMemoryRestart EventKind = "memory_restart"
	KindIgnored       EventKind = "ignored"
)

// LogRecord represents a single parsed line from a PM2 log file.
// CPUPercent and MemoryMB are only populated for resource_usage events.
type LogRecord struct {
	Timestamp  time.Time
	Event      string
	CPUPercent float64
	MemoryMB   float64
}

// Kind classifies the record by its event name.
func (r LogRecord) Kind() EventKind {
	switch r.Event {
	case EventResourceUsage:
		return KindResourceUsage
	case EventHighCPU, EventPM2Restart:
		return KindCPURestart
	case EventHighMemory:
		return KindMemoryRestart
	default:
		return KindIgnored
	}
}

// ResourceSample is one resource_usage reading.
type ResourceSample struct {
	Time       time.Time `json:"time" msgpack:"time"`
	CPUPercent float64   `json:"cpuPercent" msgpack:"cpuPercent"`
	MemoryMB   float64   `json:"memoryMb" msgpack:"memoryMb"`
}

// RestartEvent marks a restart trigger at the reading that preceded it.
type RestartEvent struct {
	Time  time.Time `json:"time" msgpack:"time"`
	Value float64   `json:"value" msgpack:"value"`
}
