package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

var (
	verboseMode bool
	infoLogger  *log.Logger
	debugLogger *log.Logger
	warnLogger  *log.Logger
	errorLogger *log.Logger
)

func init() {
	// Info and debug go to stderr so stdout stays clean for JSON/SARIF output
	// and for the MCP stdio transport.
	SetOutput(os.Stderr, os.Stderr)
}

// SetOutput redirects the loggers. Info and debug messages go to out,
// warnings and errors to errOut.
func SetOutput(out, errOut io.Writer) {
	infoLogger = log.New(out, "", 0)
	debugLogger = log.New(out, "", 0)
	warnLogger = log.New(errOut, "WARN: ", 0)
	errorLogger = log.New(errOut, "ERROR: ", 0)
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(verbose bool) {
	verboseMode = verbose
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	return verboseMode
}

func getTimestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

// Debugf logs a formatted debug message if verbose mode is enabled.
// Includes a timestamp.
func Debugf(format string, v ...interface{}) {
	if verboseMode {
		debugLogger.Printf("[%s] DEBUG: %s", getTimestamp(), fmt.Sprintf(format, v...))
	}
}

// Infof logs a formatted informational message.
func Infof(format string, v ...interface{}) {
	infoLogger.Printf(format, v...)
}

// Warnf logs a formatted warning. Used for recoverable failures such as
// falling back to sample data.
func Warnf(format string, v ...interface{}) {
	warnLogger.Printf(format, v...)
}

// Errorf logs a formatted error message.
func Errorf(format string, v ...interface{}) {
	errorLogger.Printf(format, v...)
}
