package php

import "log"

// logLevel gates the package's debugf/infof helpers behind a package-level
// check so the common case (info or error) pays
// nothing for the debug log lines, matching the spec's single verbosity
// knob -- PHPLS_LOG_LEVEL, resolved once at startup by the main package.
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelInfo
	LogLevelDebug
)

var logLevel = LogLevelInfo

// SetLogLevel is called once from main at startup.
func SetLogLevel(level LogLevel) {
	logLevel = level
}

func debugf(format string, args ...interface{}) {
	if logLevel >= LogLevelDebug {
		log.Printf(format, args...)
	}
}

func infof(format string, args ...interface{}) {
	if logLevel >= LogLevelInfo {
		log.Printf(format, args...)
	}
}
