package numacache

// Logger is an ambient collaborator for low-frequency diagnostic
// messages (construction, degenerate sizing). It is never required on
// the hot path; a nil Logger (the default) means nothing is logged.
type Logger interface {
	Debugf(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debugf(string, ...any) {}
