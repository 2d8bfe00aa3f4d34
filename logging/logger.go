package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/crytic/solsim/logging/colors"
	"github.com/rs/zerolog"
)

// GlobalLogger is disabled until a runner.Runner is created, which replaces it according to the project's logging
// configuration. Packages derive their own sub-loggers from it so log lines can be filtered by module.
var GlobalLogger = NewLogger(zerolog.Disabled, false)

// Logger sends log events to an optional colourised console and to any number of additional writers.
type Logger struct {
	// level is the minimum level emitted by both underlying loggers.
	level zerolog.Level

	// consoleEnabled records whether consoleLogger writes anywhere, so sub-loggers and level changes keep it off.
	consoleEnabled bool

	// multiLogger fans events out to writers, either as JSON or as plain console lines.
	multiLogger zerolog.Logger

	// consoleLogger writes human readable, coloured output to stderr. Stdout is reserved for program results.
	consoleLogger zerolog.Logger

	// context holds the key/value pairs added through NewSubLogger, re-applied when writers change.
	context map[string]string

	// writers are the outputs behind multiLogger.
	writers []logWriter
}

// logWriter pairs a writer handed to AddWriter with the writer events are actually sent to.
type logWriter struct {
	original io.Writer
	wrapped  io.Writer
}

// LogFormat selects how a writer added through AddWriter receives events.
type LogFormat string

const (
	// STRUCTURED writes one JSON object per event.
	STRUCTURED LogFormat = "structured"
	// UNSTRUCTURED writes console-style lines without colour.
	UNSTRUCTURED LogFormat = "unstructured"
)

// StructuredLogInfo is attached to an event under the "info" key.
type StructuredLogInfo map[string]any

// NewLogger creates a Logger at the given level. Console output goes to stderr when consoleEnabled is set; each of
// writers receives structured output.
func NewLogger(level zerolog.Level, consoleEnabled bool, writers ...io.Writer) *Logger {
	l := &Logger{
		level:          level,
		consoleEnabled: consoleEnabled,
		context:        make(map[string]string),
	}
	for _, w := range writers {
		l.writers = append(l.writers, logWriter{original: w, wrapped: w})
	}
	l.rebuild()
	return l
}

// rebuild recreates both zerolog loggers from the current level, writers and context.
func (l *Logger) rebuild() {
	multi := zerolog.New(io.Discard).Level(zerolog.Disabled)
	if len(l.writers) > 0 {
		outputs := make([]io.Writer, len(l.writers))
		for i, w := range l.writers {
			outputs[i] = w.wrapped
		}
		multi = zerolog.New(zerolog.MultiLevelWriter(outputs...)).Level(l.level).With().Timestamp().Logger()
	}

	console := zerolog.New(io.Discard).Level(zerolog.Disabled)
	if l.consoleEnabled {
		console = zerolog.New(setupDefaultFormatting(zerolog.ConsoleWriter{Out: os.Stderr}, l.level)).Level(l.level)
	}

	for k, v := range l.context {
		multi = multi.With().Str(k, v).Logger()
		console = console.With().Str(k, v).Logger()
	}
	l.multiLogger = multi
	l.consoleLogger = console
}

// NewSubLogger returns a Logger sharing this one's outputs with an additional key/value pair on every event.
func (l *Logger) NewSubLogger(key string, value string) *Logger {
	context := make(map[string]string, len(l.context)+1)
	for k, v := range l.context {
		context[k] = v
	}
	context[key] = value

	sub := &Logger{
		level:          l.level,
		consoleEnabled: l.consoleEnabled,
		context:        context,
		writers:        append([]logWriter(nil), l.writers...),
	}
	sub.rebuild()
	return sub
}

// AddWriter adds an output. Adding a writer that is already present is a no-op.
func (l *Logger) AddWriter(writer io.Writer, format LogFormat) {
	for _, w := range l.writers {
		if w.original == writer {
			return
		}
	}

	wrapped := writer
	if format == UNSTRUCTURED {
		wrapped = zerolog.ConsoleWriter{Out: writer, NoColor: true}
	}
	l.writers = append(l.writers, logWriter{original: writer, wrapped: wrapped})
	l.rebuild()
}

// RemoveWriter removes an output previously added with AddWriter. Unknown writers are ignored.
func (l *Logger) RemoveWriter(writer io.Writer) {
	for i, w := range l.writers {
		if w.original == writer {
			l.writers = append(l.writers[:i], l.writers[i+1:]...)
			l.rebuild()
			return
		}
	}
}

// Level returns the minimum level this Logger emits.
func (l *Logger) Level() zerolog.Level {
	return l.level
}

// SetLevel changes the minimum level this Logger emits.
func (l *Logger) SetLevel(level zerolog.Level) {
	l.level = level
	l.rebuild()
}

// Trace logs args at trace level.
func (l *Logger) Trace(args ...any) {
	l.log(l.consoleLogger.Trace(), l.multiLogger.Trace(), args)
}

// Debug logs args at debug level.
func (l *Logger) Debug(args ...any) {
	l.log(l.consoleLogger.Debug(), l.multiLogger.Debug(), args)
}

// Info logs args at info level.
func (l *Logger) Info(args ...any) {
	l.log(l.consoleLogger.Info(), l.multiLogger.Info(), args)
}

// Warn logs args at warn level.
func (l *Logger) Warn(args ...any) {
	l.log(l.consoleLogger.Warn(), l.multiLogger.Warn(), args)
}

// Error logs args at error level.
func (l *Logger) Error(args ...any) {
	l.log(l.consoleLogger.Error(), l.multiLogger.Error(), args)
}

// Panic logs args at panic level and then panics.
func (l *Logger) Panic(args ...any) {
	l.log(l.consoleLogger.Panic(), l.multiLogger.Panic(), args)
}

// log fills in and sends one event per underlying logger. The multi logger event is sent last so a panic still
// reaches every writer.
func (l *Logger) log(consoleLog *zerolog.Event, multiLog *zerolog.Event, args []any) {
	consoleMsg, multiMsg, err, info := buildMsgs(args...)

	consoleLog.Err(err)
	multiLog.Err(err)
	if err != nil && l.level <= zerolog.DebugLevel {
		consoleLog.Stack()
		multiLog.Stack()
	}

	if info != nil {
		consoleLog.Any("info", info)
		multiLog.Any("info", info)
	}

	defer multiLog.Msg(multiMsg)
	consoleLog.Msg(consoleMsg)
}

// buildMsgs splits args into a coloured console message, a plain message, and the (at most one) error and
// StructuredLogInfo found among them. A colors.ColorFunc argument applies to every argument after it.
func buildMsgs(args ...any) (string, string, error, StructuredLogInfo) {
	if len(args) == 0 {
		return "", "", nil, nil
	}

	colorCtx := colors.Reset
	consoleOutput := make([]string, 0, len(args))
	plainOutput := make([]string, 0, len(args))
	var info StructuredLogInfo
	var err error

	for _, arg := range args {
		switch t := arg.(type) {
		case colors.ColorFunc:
			colorCtx = t
		case StructuredLogInfo:
			info = t
		case error:
			err = t
		default:
			consoleOutput = append(consoleOutput, colorCtx(t))
			plainOutput = append(plainOutput, fmt.Sprintf("%v", t))
		}
	}

	return strings.Join(consoleOutput, ""), strings.Join(plainOutput, ""), err, info
}

// setupDefaultFormatting drops timestamps from console output and replaces level names with short coloured tags.
func setupDefaultFormatting(writer zerolog.ConsoleWriter, level zerolog.Level) zerolog.ConsoleWriter {
	writer.FormatTimestamp = func(i any) string {
		return ""
	}

	writer.FormatLevel = func(i any) string {
		s, _ := i.(string)
		lvl, err := zerolog.ParseLevel(s)
		if err != nil {
			return s
		}

		switch lvl {
		case zerolog.TraceLevel:
			return colors.CyanBold(zerolog.LevelTraceValue)
		case zerolog.DebugLevel:
			return colors.BlueBold(zerolog.LevelDebugValue)
		case zerolog.InfoLevel:
			return colors.GreenBold(colors.RIGHT_ARROW)
		case zerolog.WarnLevel:
			return colors.YellowBold(zerolog.LevelWarnValue)
		case zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel:
			return colors.RedBold(s)
		default:
			return s
		}
	}

	// The module field is noise unless debugging.
	if level > zerolog.DebugLevel {
		writer.FieldsExclude = []string{"module"}
	}
	return writer
}
