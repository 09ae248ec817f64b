// Package logging configures the logrus logger shared by every firemap
// component.
package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// RFC3339Milli is an RFC3339 date format with milliseconds.
const RFC3339Milli = "2006-01-02T15:04:05.000Z07:00"

// Options selects level, format and destination.
type Options struct {
	Level  string
	Format string // "text" or "json"
	Output io.Writer
}

// New builds a logger. Unknown levels fall back to info.
func New(o Options) (*logrus.Logger, error) {
	l := logrus.New()
	level := o.Level
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	l.SetLevel(lvl)
	switch strings.ToLower(o.Format) {
	case "json":
		l.SetFormatter(&JSONFormat{})
	default:
		l.SetFormatter(&TextFormat{})
	}
	if o.Output != nil {
		l.SetOutput(o.Output)
	} else {
		l.SetOutput(os.Stderr)
	}
	return l, nil
}

// OpenFile opens path for appending log lines.
func OpenFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

// Discard returns a logger that drops everything; handy for tests and
// components built without one.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type logData struct {
	Timestamp string      `json:"time"`
	Level     string      `json:"level"`
	Message   string      `json:"msg"`
	Data      []dataField `json:"data,omitempty"`
}

type dataField struct {
	Key string `json:"key"`
	Msg string `json:"value"`
}

// JSONFormat writes one JSON object per line.
type JSONFormat struct{}

// Format implements logrus.Formatter.
func (f *JSONFormat) Format(entry *logrus.Entry) ([]byte, error) {
	serialized, err := json.Marshal(getData(entry))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal log data as JSON: %w", err)
	}
	return append(serialized, '\n'), nil
}

// TextFormat writes key="value" pairs with fields in sorted order.
type TextFormat struct{}

// Format implements logrus.Formatter.
func (f *TextFormat) Format(entry *logrus.Entry) ([]byte, error) {
	var b *bytes.Buffer
	if entry.Buffer != nil {
		b = entry.Buffer
	} else {
		b = &bytes.Buffer{}
	}
	data := getData(entry)
	fmt.Fprintf(b, "time=%q level=%q msg=%q", data.Timestamp, data.Level, data.Message)
	for _, field := range data.Data {
		fmt.Fprintf(b, " %s=%q", field.Key, field.Msg)
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

func getData(entry *logrus.Entry) *logData {
	data := &logData{
		Timestamp: entry.Time.Format(RFC3339Milli),
		Level:     entry.Level.String(),
		Message:   entry.Message,
	}
	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		data.Data = append(data.Data, dataField{
			Key: k,
			Msg: fmt.Sprintf("%v", entry.Data[k]),
		})
	}
	return data
}
