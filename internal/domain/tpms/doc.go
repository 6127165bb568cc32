// Package tpms contains the tire pressure alarm domain.
//
// It defines the PressureSensor capability, a random reference sensor,
// scripted sensors for tests and demonstrations, and the Alarm that latches
// once a reading leaves the safe pressure range.
package tpms
