// Package config defines the tpms-monitor settings and helpers to load,
// validate and save them in YAML format.
//
// Alarm thresholds and the random sensor offset are fixed by the domain and
// are intentionally absent from the file.
package config
