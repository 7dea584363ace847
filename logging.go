/*
NAME
  logging.go

DESCRIPTION
  logging.go defines the Logger interface Open accepts, matching the
  shape revid.Config.Logger is built against in the teacher repo, plus a
  silent default and a file-rotating constructor wired to the teacher's
  own logging/rotation pair.

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

package sndfile

import (
	"github.com/ausocean/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log levels, matching github.com/ausocean/utils/logging's int8 scale.
// Named with a Log prefix to avoid colliding with the Info and Error
// types this package already exports.
const (
	LogDebug   = logging.Debug
	LogInfo    = logging.Info
	LogWarning = logging.Warning
	LogError   = logging.Error
	LogFatal   = logging.Fatal
)

// Logger receives parse-log anomalies (malformed chunk sizes, skipped
// unknown chunks, truncated files) at Warning/Debug level as they're
// recorded into the handle's in-memory parse log.
type Logger interface {
	SetLevel(int8)
	Log(level int8, message string, params ...interface{})
}

// noopLogger is the silent default used when Open is called with a nil
// Logger, matching the teacher's "safe default" convention in revid.New.
type noopLogger struct{}

func (noopLogger) SetLevel(int8)                                {}
func (noopLogger) Log(level int8, message string, params ...interface{}) {}

// NewFileLogger returns a Logger that writes through a rotating log file
// at path, sized and rotated the way cmd/sndfile-inspect needs when run
// as a long-lived inspection daemon. maxSizeMB is the rotation threshold;
// maxBackups bounds how many rotated files are kept.
func NewFileLogger(path string, level int8, maxSizeMB, maxBackups int) Logger {
	roller := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		Compress:   true,
	}
	return logging.New(level, roller, true)
}
