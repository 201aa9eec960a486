// Package monitoring routes diagnostic lines from the engine, the runner and
// the viewers to one replaceable sink.
package monitoring

import "log"

// Logger emits one formatted diagnostic line.
type Logger func(format string, v ...interface{})

// Discard drops every line.
func Discard(string, ...interface{}) {}

// Logf receives every diagnostic line. Commands and tests swap it with
// SetLogger.
var Logf Logger = log.Printf

// SetLogger installs l as the sink and returns a func that restores the
// previous one. A nil l mutes output.
func SetLogger(l Logger) (restore func()) {
	prev := Logf
	if l == nil {
		l = Discard
	}
	Logf = l
	return func() { Logf = prev }
}

// For returns a Logger that tags lines with component. The sink is looked up
// on every call, so loggers created at package init follow SetLogger.
func For(component string) Logger {
	return func(format string, v ...interface{}) {
		Logf(component+": "+format, v...)
	}
}
