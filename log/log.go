/*
Copyright 2015 Google Inc. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file or at
https://developers.google.com/open-source/licenses/bsd
*/

// The log package logs to an io.Writer in the format used by CUPS, and
// optionally to the systemd journal.
//
// A line may be about a scanner, named by its service URL or endpoint
// address, or about a scan job, named by its job id:
//
//	I [02/Jan/2006:15:04:05 -0700] [Scanner http://192.0.2.7:5358/wsd/scan] Scanning
//	E [02/Jan/2006:15:04:05 -0700] [Job 12] scan failed: ...
package log

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/coreos/go-systemd/v22/journal"
)

const dateTimeFormat = "02/Jan/2006:15:04:05 -0700"

// LogLevel represents a subset of the severity levels named by CUPS.
type LogLevel uint8

const (
	ERROR LogLevel = iota
	WARNING
	INFO
	DEBUG
)

var levels = []struct {
	name     string
	initial  rune
	priority journal.Priority
}{
	ERROR:   {"ERROR", 'E', journal.PriErr},
	WARNING: {"WARNING", 'W', journal.PriWarning},
	INFO:    {"INFO", 'I', journal.PriInfo},
	DEBUG:   {"DEBUG", 'D', journal.PriDebug},
}

func LevelFromString(level string) (LogLevel, bool) {
	for l, def := range levels {
		if strings.EqualFold(level, def.name) {
			return LogLevel(l), true
		}
	}
	return 0, false
}

func (l LogLevel) String() string {
	if int(l) < len(levels) {
		return levels[l].name
	}
	return "UNKNOWN"
}

// subject is what a line is about. The zero subject is the whole run.
type subject struct {
	kind string
	id   string
}

func scannerSubject(id string) subject { return subject{"Scanner", id} }
func jobSubject(id string) subject     { return subject{"Job", id} }

func (s subject) prefix() string {
	if s.id == "" {
		return ""
	}
	return fmt.Sprintf("[%s %s] ", s.kind, s.id)
}

var logger struct {
	m              sync.Mutex
	writer         io.Writer
	level          LogLevel
	journalEnabled bool
}

func init() {
	logger.writer = os.Stderr
	logger.level = INFO
}

// SetWriter sets the io.Writer to log to. Default is os.Stderr.
func SetWriter(w io.Writer) {
	logger.m.Lock()
	defer logger.m.Unlock()
	logger.writer = w
}

// SetLevel sets the minimum severity level to log. Default is INFO.
func SetLevel(l LogLevel) {
	logger.m.Lock()
	defer logger.m.Unlock()
	logger.level = l
}

// SetJournalEnabled enables or disables writing to the systemd journal.
// Enabling is a no-op when the journal socket is absent.
func SetJournalEnabled(b bool) {
	logger.m.Lock()
	defer logger.m.Unlock()
	logger.journalEnabled = b && journal.Enabled()
}

func log(level LogLevel, about subject, format string, args ...interface{}) {
	logger.m.Lock()
	defer logger.m.Unlock()

	if level > logger.level {
		return
	}

	var message string
	if format == "" {
		message = fmt.Sprint(args...)
	} else {
		message = fmt.Sprintf(format, args...)
	}
	message = about.prefix() + message

	fmt.Fprintf(logger.writer, "%c [%s] %s\n", levels[level].initial, time.Now().Format(dateTimeFormat), message)

	if !logger.journalEnabled {
		return
	}
	vars := map[string]string{}
	if about.id != "" {
		vars[strings.ToUpper(about.kind)+"_ID"] = about.id
	}
	// Skip log and the exported wrapper.
	if pc, file, line, ok := runtime.Caller(2); ok {
		if f := runtime.FuncForPC(pc); f != nil {
			vars["CODE_FUNC"] = f.Name()
		}
		vars["CODE_FILE"] = file
		vars["CODE_LINE"] = strconv.Itoa(line)
	}
	journal.Send(message, levels[level].priority, vars)
}

func Error(args ...interface{}) { log(ERROR, subject{}, "", args...) }
func ErrorJobf(jobID, format string, args ...interface{}) {
	log(ERROR, jobSubject(jobID), format, args...)
}
func ErrorScannerf(scannerID, format string, args ...interface{}) {
	log(ERROR, scannerSubject(scannerID), format, args...)
}

func Warningf(format string, args ...interface{}) { log(WARNING, subject{}, format, args...) }
func WarningScannerf(scannerID, format string, args ...interface{}) {
	log(WARNING, scannerSubject(scannerID), format, args...)
}

func Info(args ...interface{})                  { log(INFO, subject{}, "", args...) }
func Infof(format string, args ...interface{})  { log(INFO, subject{}, format, args...) }
func InfoJob(jobID string, args ...interface{}) { log(INFO, jobSubject(jobID), "", args...) }
func InfoJobf(jobID, format string, args ...interface{}) {
	log(INFO, jobSubject(jobID), format, args...)
}
func InfoScannerf(scannerID, format string, args ...interface{}) {
	log(INFO, scannerSubject(scannerID), format, args...)
}

func Debugf(format string, args ...interface{}) { log(DEBUG, subject{}, format, args...) }
func DebugJobf(jobID, format string, args ...interface{}) {
	log(DEBUG, jobSubject(jobID), format, args...)
}
func DebugScannerf(scannerID, format string, args ...interface{}) {
	log(DEBUG, scannerSubject(scannerID), format, args...)
}
