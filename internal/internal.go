// Package internal contains internal implementation details.
package internal

import coexist "github.com/betmutema/Final-Year-Project"

// NullLogger is a [coexist.Logger] that does not emit logs.
type NullLogger struct{}

// Debugf implements coexist.Logger.
func (nl *NullLogger) Debugf(format string, v ...any) {
	// nothing
}

// Infof implements coexist.Logger.
func (nl *NullLogger) Infof(format string, v ...any) {
	// nothing
}

// Warnf implements coexist.Logger.
func (nl *NullLogger) Warnf(format string, v ...any) {
	// nothing
}

var _ coexist.Logger = &NullLogger{}
