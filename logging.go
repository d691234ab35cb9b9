package coexist

//
// Logging
//
// The engine never forces a concrete logger on callers: it depends on
// the same small [Logger] shape the rest of this codebase's ambient
// stack uses, which github.com/apex/log's top-level Logger already
// satisfies. Leaving Config.Logger nil when calling [Simulate] is
// equivalent to passing [internal.NullLogger]: the run proceeds silently.
//

// Logger is the logging sink a [Simulate] run reports to. It is
// satisfied by *log.Logger and the package-level log.Log from
// github.com/apex/log without an adapter.
type Logger interface {
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
}
