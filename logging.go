package thermcam

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Log levels.
const (
	LevelDebug   = 10
	LevelInfo    = 20
	LevelWarning = 30
	LevelError   = 40
)

// Leveled loggers; the ones below the active level discard their output.
var (
	DebugLog   *log.Logger
	InfoLog    *log.Logger
	WarningLog *log.Logger
	ErrorLog   *log.Logger
)

const logFlags = log.Ldate | log.Ltime | log.Lmicroseconds | log.Lmsgprefix | log.Lshortfile

func init() {
	DebugLog = log.New(os.Stderr, "DEBUG ", logFlags)
	InfoLog = log.New(os.Stderr, "INFO ", logFlags)
	WarningLog = log.New(os.Stderr, "WARNING ", logFlags)
	ErrorLog = log.New(os.Stderr, "ERROR ", logFlags)

	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "INFO"
	}
	if err := SetLogLevel(level); err != nil {
		WarningLog.Printf("%v, keeping INFO", err)
		_ = SetLogLevel("INFO")
	}
}

// SetLogLevel enables the loggers at or above the named level: DEBUG, INFO,
// WARNING or ERROR.
func SetLogLevel(name string) error {
	var level int
	switch strings.ToUpper(name) {
	case "DEBUG":
		level = LevelDebug
	case "INFO":
		level = LevelInfo
	case "WARNING":
		level = LevelWarning
	case "ERROR":
		level = LevelError
	default:
		return fmt.Errorf("thermcam: unrecognized log level %q", name)
	}

	for _, l := range []struct {
		logger *log.Logger
		level  int
	}{
		{DebugLog, LevelDebug},
		{InfoLog, LevelInfo},
		{WarningLog, LevelWarning},
		{ErrorLog, LevelError},
	} {
		if l.level >= level {
			l.logger.SetOutput(os.Stderr)
		} else {
			l.logger.SetOutput(io.Discard)
		}
	}
	return nil
}
