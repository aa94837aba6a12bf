package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// SessionLogger writes a per-session diagnostic log file: every prompt,
// response, and error of one assistant session, timestamped and flushed
// immediately. Process-level logging stays on zerolog; this file is the
// detailed trace a user attaches to a bug report.
type SessionLogger struct {
	sessionID string
	logFile   *os.File
	mutex     sync.Mutex
	startTime time.Time
}

var (
	currentLogger *SessionLogger
	loggerMutex   sync.Mutex
)

// StartSessionLogging opens a new diagnostic log under dir, closing any
// previous session logger first.
func StartSessionLogging(dir, sessionID string) (*SessionLogger, error) {
	loggerMutex.Lock()
	defer loggerMutex.Unlock()

	if currentLogger != nil {
		currentLogger.Close()
	}

	if dir == "" {
		dir = "rolepilot_logs"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	logPath := filepath.Join(dir, fmt.Sprintf("session_%s_%s.log", sessionID, timestamp))
	logFile, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	logger := &SessionLogger{
		sessionID: sessionID,
		logFile:   logFile,
		startTime: time.Now(),
	}
	currentLogger = logger
	logger.writeHeader()
	return logger, nil
}

// GetCurrentLogger returns the active session logger, nil when none.
func GetCurrentLogger() *SessionLogger {
	loggerMutex.Lock()
	defer loggerMutex.Unlock()
	return currentLogger
}

// Log writes a timestamped message. Safe on a nil receiver so call sites
// never have to guard.
func (s *SessionLogger) Log(format string, args ...interface{}) {
	if s == nil {
		return
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	timestamp := time.Now().Format("15:04:05.000")
	elapsed := time.Since(s.startTime)
	message := fmt.Sprintf("[%s] [+%v] %s\n", timestamp, elapsed.Round(time.Millisecond), fmt.Sprintf(format, args...))
	s.logFile.WriteString(message)
	s.logFile.Sync()
}

// LogSection writes a section header.
func (s *SessionLogger) LogSection(title string) {
	if s == nil {
		return
	}
	separator := strings.Repeat("=", 80)
	s.Log(separator)
	s.Log("= %s", title)
	s.Log(separator)
}

// LogExchange records an outgoing prompt.
func (s *SessionLogger) LogExchange(requestID, model, systemPrompt, userPrompt string) {
	if s == nil {
		return
	}
	s.LogSection(fmt.Sprintf("REQUEST %s", requestID))
	s.Log("Model: %s", model)
	s.Log("System prompt length: %d characters", len(systemPrompt))
	s.Log("--- SYSTEM PROMPT START ---")
	s.logFile.WriteString(systemPrompt + "\n")
	s.Log("--- SYSTEM PROMPT END ---")
	s.Log("--- USER PROMPT START ---")
	s.logFile.WriteString(userPrompt + "\n")
	s.Log("--- USER PROMPT END ---")
}

// LogResponse records a model response, before sanitization.
func (s *SessionLogger) LogResponse(requestID, response string) {
	if s == nil {
		return
	}
	s.LogSection(fmt.Sprintf("RESPONSE %s", requestID))
	s.Log("Response length: %d characters", len(response))
	s.Log("--- RESPONSE START ---")
	s.logFile.WriteString(response + "\n")
	s.Log("--- RESPONSE END ---")
}

// LogError records a failure with its surrounding context label.
func (s *SessionLogger) LogError(where string, err error) {
	if s == nil {
		return
	}
	s.Log("ERROR in %s: %v", where, err)
}

// Close finalizes the log file.
func (s *SessionLogger) Close() {
	if s == nil {
		return
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.logFile != nil {
		timestamp := time.Now().Format("15:04:05.000")
		elapsed := time.Since(s.startTime)
		finalMessage := fmt.Sprintf("[%s] [+%v] Session logging completed. Total duration: %v\n",
			timestamp, elapsed.Round(time.Millisecond), elapsed)
		s.logFile.WriteString(finalMessage)
		s.logFile.Sync()
		s.logFile.Close()
		s.logFile = nil
	}
}

func (s *SessionLogger) writeHeader() {
	header := fmt.Sprintf(`ROLEPILOT SESSION LOG
Session ID: %s
Start Time: %s
Log Format: [HH:MM:SS.mmm] [+duration] message

`, s.sessionID, s.startTime.Format("2006-01-02 15:04:05"))

	s.logFile.WriteString(header)
	s.logFile.Sync()
}
