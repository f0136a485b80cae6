package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	BoardIDKey   string = "boardID"
	PlayerIDKey  string = "playerID"
	RowKey       string = "row"
	ColKey       string = "col"
	PictureKey   string = "picture"
	RuleKey      string = "rule"
	WatcherIDKey string = "watcherID"
)

func getEnableColorLog() string {
	v := os.Getenv("COLORIZE_LOG")
	if v == "" {
		// Use colorized logging by default.
		return "true"
	}
	return v
}

func IsColorLoggingEnabled() bool {
	return getEnableColorLog() == "1" || strings.ToLower(getEnableColorLog()) == "true"
}

// GetZeroLogger returns a child logger tagged with name, writing to out
// (os.Stdout if nil).
func GetZeroLogger(name string, out io.Writer) *zerolog.Logger {
	if out == nil {
		out = os.Stdout
	}
	noColor := !IsColorLoggingEnabled()
	output := zerolog.ConsoleWriter{Out: out, NoColor: noColor, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Str("logger", name).Logger()
	return &logger
}

// ForBoard returns a "board" logger pre-tagged with boardID, the way
// NewBotPlayer tags its logger with the bot's player name once at
// construction instead of repeating it at every call site. A Board
// stores the result and logs through it for the lifetime of the
// instance, rather than attaching BoardIDKey to every individual event.
func ForBoard(boardID string) zerolog.Logger {
	return GetZeroLogger("board", nil).With().Str(BoardIDKey, boardID).Logger()
}
