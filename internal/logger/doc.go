// Package logger wraps zap with a process-wide sugared logger.
//
// The logger travels through context.Context: services call WithName or
// WithKV to scope it and the leveled helpers (InfoKV, WarnKV, ...) pull it
// back out. The encoder is either a compact console format or JSON.
package logger
