// Package logging configures zerolog for the command line tools.
package logging

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// levelNames maps zerolog level names to the labels printed on the console
var levelNames = map[string]string{
	"trace": "TRACE",
	"debug": "DEBUG",
	"info":  "INFO",
	"warn":  "WARNING",
	"error": "ERROR",
	"fatal": "CRITICAL",
	"panic": "CRITICAL",
}

// New creates a logger writing to w. In production the output is JSON;
// otherwise it is a console line shaped like
//
//	analyzer.go[LINE: 42]# INFO     total 12 files path=./flask
func New(w io.Writer, env, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return fmt.Sprintf("%s[LINE:%3d]#", filepath.Base(file), line)
	}

	if env == "production" {
		return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
	}

	cw := zerolog.ConsoleWriter{
		Out:     w,
		NoColor: true,
		PartsOrder: []string{
			zerolog.CallerFieldName,
			zerolog.LevelFieldName,
			zerolog.MessageFieldName,
		},
		FormatCaller: func(i interface{}) string {
			s, _ := i.(string)
			return s
		},
		FormatLevel: func(i interface{}) string {
			s, _ := i.(string)
			name, ok := levelNames[s]
			if !ok {
				name = strings.ToUpper(s)
			}
			return fmt.Sprintf("%-8s", name)
		},
	}
	return zerolog.New(cw).Level(lvl), nil
}

// Setup creates a logger with New and installs it, with caller information,
// as the global log.Logger. The returned logger has no caller context so
// wrappers can attach their own caller frame.
func Setup(w io.Writer, env, level string) (zerolog.Logger, error) {
	logger, err := New(w, env, level)
	if err != nil {
		return logger, err
	}
	log.Logger = logger.With().Caller().Logger()
	return logger, nil
}
