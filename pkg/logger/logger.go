package logger

import (
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const logDir = "logs"

func Init(file string) {
	log.Logger = NewLogger(file)
}

// NewLogger returns a logger writing to the console and to logs/<file>.
func NewLogger(file string) zerolog.Logger {
	return zerolog.New(NewWriter(file)).With().Timestamp().Caller().Logger()
}

// SetLevel sets the global level; unknown names fall back to info.
func SetLevel(level string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

func NewWriter(file string) io.Writer {
	writers := io.MultiWriter(
		NewConsoleWriter(),
		NewLumberjack(file),
	)

	return writers
}

func NewConsoleWriter() io.Writer {
	return zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
}

func NewLumberjack(file string) io.Writer {
	abs, err := filepath.Abs(".")
	if err != nil {
		panic(err)
	}

	path := path.Join(abs, logDir, file)
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     7,
		Compress:   true,
	}
}
