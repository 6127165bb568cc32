// Package monitor polls a tire pressure Alarm at a fixed cadence.
//
// It builds the configured sensor, records every reading in the log and in
// Prometheus metrics, and warns once when the alarm latches.
package monitor
