package coinbase

// Logger receives a debug entry per dispatched request and a warning per
// failed call. internal/logger.ZapLogger and zap-backed adapters satisfy it.
type Logger interface {
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
}

type discardLogger struct{}

func (discardLogger) DebugObj(string, string, interface{}) {}
func (discardLogger) WarnObj(string, string, interface{})  {}

func ensureLogger(l Logger) Logger {
	if l == nil {
		return discardLogger{}
	}
	return l
}
