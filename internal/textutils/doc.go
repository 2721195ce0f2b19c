// Package textutils provides text canonicalization used for matching messages:
// accent folding, leetspeak substitution and whitespace handling. Normalized text
// is only used for matching and never leaves the process.
package textutils
