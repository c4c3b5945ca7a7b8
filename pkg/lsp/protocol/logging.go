package protocol

import (
	"github.com/rs/zerolog"
)

// MessageType represents the type of a window/logMessage notification.
type MessageType int

const (
	Error   MessageType = 1
	Warning MessageType = 2
	Info    MessageType = 3
	Debug   MessageType = 4
	Trace   MessageType = 5
	Unknown MessageType = 6
)

func (mt MessageType) String() string {
	switch mt {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	case Debug:
		return "debug"
	case Trace:
		return "trace"
	default:
		return "unknown"
	}
}

// LogMessageParams represents the parameters for a window/logMessage
// notification.
type LogMessageParams struct {
	Type    MessageType    `json:"type"`
	Message string         `json:"message"`
	Source  string         `json:"source,omitempty"`
	Time    string         `json:"time,omitempty"`
	Extra   map[string]any `json:"extra,omitempty"`
}

// ParseMessageTypeFromZerolog maps a zerolog level name to the LSP message
// type.
func ParseMessageTypeFromZerolog(level string) MessageType {
	zlgLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		return Unknown
	}
	switch zlgLevel {
	case zerolog.InfoLevel:
		return Info
	case zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel:
		return Error
	case zerolog.WarnLevel:
		return Warning
	case zerolog.DebugLevel:
		return Debug
	case zerolog.TraceLevel:
		return Trace
	default:
		return Unknown
	}
}
