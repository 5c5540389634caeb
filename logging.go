package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

const (
	logDir      = "logs"
	logFileName = "snake.log"
	maxLogSize  = 10 * 1024 * 1024
)

var now = time.Now

// setupLogging sends the standard logger to logs/snake.log when debug is on
// and discards it otherwise, so nothing is printed over the game screen. A
// log file larger than maxLogSize is renamed with a timestamp first.
// The returned file is nil when logging is disabled or the file could not be
// opened.
func setupLogging(debug bool) *os.File {
	if !debug {
		log.SetOutput(io.Discard)
		return nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.SetOutput(io.Discard)
		return nil
	}

	logPath := filepath.Join(logDir, logFileName)
	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	var rotateErr error
	if info, err := os.Stat(logPath); err == nil && info.Size() > maxLogSize {
		// a log that cannot be moved aside is started over instead
		if rotateErr = rotateLog(logPath); rotateErr != nil {
			flags |= os.O_TRUNC
		}
	}

	logFile, err := os.OpenFile(logPath, flags, 0644)
	if err != nil {
		log.SetOutput(io.Discard)
		return nil
	}

	log.SetOutput(logFile)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	log.Printf("=== session started pid %d ===", os.Getpid())
	if rotateErr != nil {
		log.Printf("Log rotation failed, previous log discarded: %v", rotateErr)
	}
	return logFile
}

// rotateLog renames logPath to a timestamped file in the same directory.
func rotateLog(logPath string) error {
	rotated := filepath.Join(filepath.Dir(logPath), fmt.Sprintf("snake-%s.log", now().Format("20060102-150405")))
	if err := os.Rename(logPath, rotated); err != nil {
		return errors.Wrap(err, "rotate log")
	}
	return nil
}
