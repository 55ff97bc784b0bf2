// Package memory provides in-memory implementations of driven ports.
// They back unit tests and one-shot runs that should not touch disk.
package memory
