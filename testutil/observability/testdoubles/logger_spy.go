package testdoubles

import (
	"sync"

	"github.com/opencirc/circulation-go/catalog"
)

// LoggerSpy is a Logger implementation that captures logging calls for
// testing catalog instrumentation when no contextual logger is configured.
type LoggerSpy struct {
	debugRecords []SpyLogRecord
	infoRecords  []SpyLogRecord
	warnRecords  []SpyLogRecord
	errorRecords []SpyLogRecord
	mu           sync.Mutex
	recordCalls  bool
}

// SpyLogRecord represents a recorded log call.
type SpyLogRecord struct {
	Level   string
	Message string
	Args    []any
}

// NewLoggerSpy creates a new LoggerSpy instance.
func NewLoggerSpy(recordCalls bool) *LoggerSpy {
	return &LoggerSpy{
		recordCalls: recordCalls,
	}
}

// Debug implements the Logger interface for testing.
func (s *LoggerSpy) Debug(msg string, args ...any) {
	if s.recordCalls {
		s.mu.Lock()
		defer s.mu.Unlock()

		s.debugRecords = append(s.debugRecords, SpyLogRecord{Level: "debug", Message: msg, Args: args})
	}
}

// Info implements the Logger interface for testing.
func (s *LoggerSpy) Info(msg string, args ...any) {
	if s.recordCalls {
		s.mu.Lock()
		defer s.mu.Unlock()

		s.infoRecords = append(s.infoRecords, SpyLogRecord{Level: "info", Message: msg, Args: args})
	}
}

// Warn implements the Logger interface for testing.
func (s *LoggerSpy) Warn(msg string, args ...any) {
	if s.recordCalls {
		s.mu.Lock()
		defer s.mu.Unlock()

		s.warnRecords = append(s.warnRecords, SpyLogRecord{Level: "warn", Message: msg, Args: args})
	}
}

// Error implements the Logger interface for testing.
func (s *LoggerSpy) Error(msg string, args ...any) {
	if s.recordCalls {
		s.mu.Lock()
		defer s.mu.Unlock()

		s.errorRecords = append(s.errorRecords, SpyLogRecord{Level: "error", Message: msg, Args: args})
	}
}

// Reset clears all recorded log calls.
func (s *LoggerSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debugRecords = s.debugRecords[:0]
	s.infoRecords = s.infoRecords[:0]
	s.warnRecords = s.warnRecords[:0]
	s.errorRecords = s.errorRecords[:0]
}

// GetInfoRecords returns a copy of all info log records.
func (s *LoggerSpy) GetInfoRecords() []SpyLogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]SpyLogRecord(nil), s.infoRecords...)
}

// GetErrorRecords returns a copy of all error log records.
func (s *LoggerSpy) GetErrorRecords() []SpyLogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]SpyLogRecord(nil), s.errorRecords...)
}

// GetTotalRecordCount returns the total number of log records across all levels.
func (s *LoggerSpy) GetTotalRecordCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.debugRecords) + len(s.infoRecords) + len(s.warnRecords) + len(s.errorRecords)
}

// HasInfoLog checks if an info log with the specified message exists.
func (s *LoggerSpy) HasInfoLog(message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.infoRecords {
		if record.Message == message {
			return true
		}
	}

	return false
}

// HasErrorLog checks if an error log with the specified message exists.
func (s *LoggerSpy) HasErrorLog(message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.errorRecords {
		if record.Message == message {
			return true
		}
	}

	return false
}

// Compile-time check to ensure LoggerSpy implements Logger interface.
var _ catalog.Logger = (*LoggerSpy)(nil)
