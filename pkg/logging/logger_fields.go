package logging

import (
	"time"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Uint64(key string, value uint64) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Simulation field helpers
func Component(name string) Field {
	return String("component", name)
}

func Model(name string) Field {
	return String("model", name)
}

func RunID(id int) Field {
	return Int("run_id", id)
}

func Seed(seed uint64) Field {
	return Uint64("seed", seed)
}

func Step(step int) Field {
	return Int("step", step)
}

func NodeID(id int) Field {
	return Int("node_id", id)
}

func Strategy(name string) Field {
	return String("strategy", name)
}

func SweepID(id string) Field {
	return String("sweep_id", id)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

func Count(n int) Field {
	return Int("count", n)
}

func Path(p string) Field {
	return String("path", p)
}
