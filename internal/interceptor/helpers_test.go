// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package interceptor

import (
	"sync"
	"time"

	"github.com/mia-platform/calllog/internal/logger"
	"github.com/mia-platform/calllog/internal/requestctx"
)

type entry struct {
	level logger.Level
	msg   string
	args  []interface{}
}

// recordingLogger keeps every emitted entry in memory.
type recordingLogger struct {
	lock    sync.Mutex
	level   logger.Level
	entries []entry
}

var _ logger.Logger = &recordingLogger{}

func newRecordingLogger(level logger.Level) *recordingLogger {
	return &recordingLogger{level: level}
}

func (r *recordingLogger) WithName(string) logger.Logger { return r }
func (r *recordingLogger) SetLevel(level logger.Level)   { r.level = level }
func (r *recordingLogger) IsDebug() bool                 { return r.level >= logger.DEBUG }
func (r *recordingLogger) IsTrace() bool                 { return r.level >= logger.TRACE }

func (r *recordingLogger) Log(level logger.Level, msg string, args ...interface{}) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.entries = append(r.entries, entry{level: level, msg: msg, args: args})
}

func (r *recordingLogger) Trace(msg string, args ...interface{}) { r.Log(logger.TRACE, msg, args...) }
func (r *recordingLogger) Debug(msg string, args ...interface{}) { r.Log(logger.DEBUG, msg, args...) }
func (r *recordingLogger) Info(msg string, args ...interface{})  { r.Log(logger.INFO, msg, args...) }
func (r *recordingLogger) Warn(msg string, args ...interface{})  { r.Log(logger.WARN, msg, args...) }
func (r *recordingLogger) Error(msg string, args ...interface{}) { r.Log(logger.ERROR, msg, args...) }

func (r *recordingLogger) all() []entry {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]entry(nil), r.entries...)
}

type boomError struct {
	msg string
	err error
}

func (e *boomError) Error() string { return e.msg }
func (e *boomError) Unwrap() error { return e.err }

type fakeRequest struct {
	method   string
	uri      string
	headers  map[string]string
	response requestctx.Response
}

func (f fakeRequest) Method() string                { return f.method }
func (f fakeRequest) URI() string                   { return f.uri }
func (f fakeRequest) Headers() map[string]string    { return f.headers }
func (f fakeRequest) Response() requestctx.Response { return f.response }

type fakeResponse int

func (f fakeResponse) StatusCode() int { return int(f) }

type panickingResponse struct{}

func (panickingResponse) StatusCode() int { panic("response already released") }

type observation struct {
	typeName  string
	operation string
	failed    bool
	elapsed   time.Duration
}

type fakeRecorder struct {
	lock         sync.Mutex
	observations []observation
}

func (f *fakeRecorder) ObserveCall(typeName, operation string, failed bool, elapsed time.Duration) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.observations = append(f.observations, observation{typeName, operation, failed, elapsed})
}
