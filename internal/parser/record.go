package parser

import (
	"bytes"

	"github.com/selfheal/recovery-graph/internal/models"
	"github.com/valyala/fastjson"
)

var linePool fastjson.ParserPool

// ParseLine decodes one raw log line into a LogRecord. It reports false when
// the line has to be skipped: invalid JSON, a missing or malformed timestamp,
// a message that is not an object, or unreadable resource readings.
// A record without a message, or with an unknown event, is returned with an
// empty or unknown Event and classifies as ignored.
func ParseLine(line []byte, layout string) (models.LogRecord, bool) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return models.LogRecord{}, false
	}

	// ParseBytes tolerates leading zeros, bad escapes and raw control
	// characters, so the line is validated first.
	if fastjson.ValidateBytes(line) != nil {
		return models.LogRecord{}, false
	}

	p := linePool.Get()
	defer linePool.Put(p)

	v, err := p.ParseBytes(line)
	if err != nil || v.Type() != fastjson.TypeObject {
		return models.LogRecord{}, false
	}

	tsVal := field(v, "timestamp")
	if tsVal == nil || tsVal.Type() != fastjson.TypeString {
		return models.LogRecord{}, false
	}
	tsBytes, _ := tsVal.StringBytes()
	ts, err := ParseTimestamp(string(tsBytes), layout)
	if err != nil {
		return models.LogRecord{}, false
	}

	rec := models.LogRecord{Timestamp: ts}

	msg := field(v, "message")
	if msg == nil {
		return rec, true
	}
	if msg.Type() != fastjson.TypeObject {
		return models.LogRecord{}, false
	}

	if ev := field(msg, "event"); ev != nil && ev.Type() == fastjson.TypeString {
		b, _ := ev.StringBytes()
		rec.Event = string(b)
	}

	if rec.Kind() == models.KindResourceUsage {
		cpu, err := coerceFloat(field(msg, "cpu_percent"))
		if err != nil {
			return models.LogRecord{}, false
		}
		mem, err := coerceFloat(field(msg, "memory_mb"))
		if err != nil {
			return models.LogRecord{}, false
		}
		rec.CPUPercent = cpu
		rec.MemoryMB = mem
	}

	return rec, true
}

// field returns the last value stored under key in object v, or nil.
// fastjson's Get returns the first one; duplicate keys resolve to the last.
func field(v *fastjson.Value, key string) *fastjson.Value {
	o, err := v.Object()
	if err != nil {
		return nil
	}
	var found *fastjson.Value
	o.Visit(func(k []byte, fv *fastjson.Value) {
		if string(k) == key {
			found = fv
		}
	})
	return found
}
