// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package interceptor

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mia-platform/calllog/internal/config"
	"github.com/mia-platform/calllog/internal/logger"
)

var durationPattern = regexp.MustCompile(`in (\d+) ms`)

func elapsedFrom(t *testing.T, msg string) int64 {
	t.Helper()

	match := durationPattern.FindStringSubmatch(msg)
	require.Len(t, match, 2, "no duration in %q", msg)
	value, err := strconv.ParseInt(match[1], 10, 64)
	require.NoError(t, err)
	return value
}

func TestTimed(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		log := newRecordingLogger(logger.INFO)
		recorder := &fakeRecorder{}
		ic := New(enabledInfo, log, WithRecorder(recorder))

		value, err := Timed(ic, NewInvocation(t.Context(), "ReportService", "Build"), func() (string, error) {
			time.Sleep(50 * time.Millisecond)
			return "report", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "report", value)

		entries := log.all()
		require.Len(t, entries, 1)
		assert.Contains(t, entries[0].msg, "Method ReportService.Build completed successfully in ")
		assert.GreaterOrEqual(t, elapsedFrom(t, entries[0].msg), int64(50))

		require.Len(t, recorder.observations, 1)
		assert.Equal(t, "ReportService", recorder.observations[0].typeName)
		assert.Equal(t, "Build", recorder.observations[0].operation)
		assert.False(t, recorder.observations[0].failed)
		assert.GreaterOrEqual(t, recorder.observations[0].elapsed, 50*time.Millisecond)
	})

	t.Run("failure", func(t *testing.T) {
		t.Parallel()
		log := newRecordingLogger(logger.INFO)
		recorder := &fakeRecorder{}
		ic := New(config.Config{Enabled: true, Level: "ERROR"}, log, WithRecorder(recorder))

		original := &boomError{msg: "boom"}
		value, err := Timed(ic, NewInvocation(t.Context(), "ReportService", "Build"), func() (int, error) {
			return -1, original
		})
		assert.Same(t, original, err)
		assert.Equal(t, -1, value)

		entries := log.all()
		require.Len(t, entries, 1)
		assert.Equal(t, logger.ERROR, entries[0].level)
		assert.True(t, strings.HasPrefix(entries[0].msg, "Method ReportService.Build completed with error in "))
		assert.True(t, strings.HasSuffix(entries[0].msg, " ms: boom"))

		require.Len(t, recorder.observations, 1)
		assert.True(t, recorder.observations[0].failed)
	})

	t.Run("panic is logged and propagated", func(t *testing.T) {
		t.Parallel()
		log := newRecordingLogger(logger.INFO)
		ic := New(enabledInfo, log)

		assert.PanicsWithValue(t, "exploded", func() {
			_ = TimedCall(ic, NewInvocation(t.Context(), "ReportService", "Build"), func() error {
				panic("exploded")
			})
		})

		entries := log.all()
		require.Len(t, entries, 1)
		assert.True(t, strings.HasSuffix(entries[0].msg, " ms: exploded"))
	})

	t.Run("timed call without result", func(t *testing.T) {
		t.Parallel()
		log := newRecordingLogger(logger.INFO)
		ic := New(enabledInfo, log)

		err := TimedCall(ic, NewInvocation(t.Context(), "ReportService", "Flush"), func() error { return nil })
		require.NoError(t, err)

		entries := log.all()
		require.Len(t, entries, 1)
		assert.Contains(t, entries[0].msg, "Method ReportService.Flush completed successfully in ")
	})
}

func TestLogged(t *testing.T) {
	t.Parallel()

	original := errors.New("boom")
	testCases := map[string]struct {
		proceed       func() (*string, error)
		expectedError error
		endMarker     string
		endLine       string
	}{
		"success": {
			proceed: func() (*string, error) {
				value := "created"
				return &value, nil
			},
			endMarker: successMarker,
			endLine:   "Return Value: 0x",
		},
		"success without value": {
			proceed:   func() (*string, error) { return nil, nil },
			endMarker: successMarker,
			endLine:   "Return Value: void\n",
		},
		"failure": {
			proceed:       func() (*string, error) { return nil, original },
			expectedError: original,
			endMarker:     failureMarker,
			endLine:       "Exception: errorString\nError Message: boom\n",
		},
	}

	for name, test := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			log := newRecordingLogger(logger.INFO)
			ic := New(enabledInfo, log)

			expectedValue, expectedErr := test.proceed()
			value, err := Logged(ic, NewInvocation(t.Context(), "OrderService", "Create", "book"), test.proceed)
			assert.Equal(t, expectedValue, value)
			assert.Equal(t, expectedErr, err)
			if test.expectedError != nil {
				assert.Same(t, test.expectedError, err)
			}

			entries := log.all()
			require.Len(t, entries, 2)
			assert.True(t, strings.HasPrefix(entries[0].msg, startMarker))
			assert.True(t, strings.HasPrefix(entries[1].msg, test.endMarker))
			assert.Contains(t, entries[1].msg, test.endLine)
		})
	}
}

func TestLoggedPanic(t *testing.T) {
	t.Parallel()

	log := newRecordingLogger(logger.INFO)
	ic := New(enabledInfo, log)
	panicValue := fmt.Errorf("nil map write")

	assert.PanicsWithError(t, "nil map write", func() {
		_ = Call(ic, NewInvocation(t.Context(), "OrderService", "Delete", 7), func() error {
			panic(panicValue)
		})
	})

	entries := log.all()
	require.Len(t, entries, 2)
	assert.True(t, strings.HasPrefix(entries[0].msg, startMarker))
	assert.Contains(t, entries[1].msg, "Exception: panic\nError Message: nil map write\n")
}

func TestCall(t *testing.T) {
	t.Parallel()

	log := newRecordingLogger(logger.INFO)
	ic := New(enabledInfo, log)

	require.NoError(t, Call(ic, NewInvocation(t.Context(), "OrderService", "Touch"), func() error { return nil }))

	entries := log.all()
	require.Len(t, entries, 2)
	assert.Contains(t, entries[1].msg, "Return Value: void\n")
}

func TestConcurrentCallsAreLoggedIndependently(t *testing.T) {
	t.Parallel()

	log := newRecordingLogger(logger.INFO)
	ic := New(enabledInfo, log)

	const calls = 64
	var wg sync.WaitGroup
	for i := range calls {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inv := NewInvocation(t.Context(), "Counter", fmt.Sprintf("Op%d", i), i)
			value, err := Logged(ic, inv, func() (int, error) {
				return Timed(ic, inv, func() (int, error) { return i * 2, nil })
			})
			assert.NoError(t, err)
			assert.Equal(t, i*2, value)
		}()
	}
	wg.Wait()

	entries := log.all()
	require.Len(t, entries, calls*3)

	starts := make(map[string]int)
	ends := make(map[string]int)
	for _, entry := range entries {
		switch {
		case strings.HasPrefix(entry.msg, startMarker):
			assert.True(t, strings.HasSuffix(entry.msg, separator))
			starts[strings.Split(entry.msg, "\n")[1]]++
		case strings.HasPrefix(entry.msg, successMarker):
			assert.True(t, strings.HasSuffix(entry.msg, separator))
			ends[strings.Split(entry.msg, "\n")[1]]++
		default:
			assert.Contains(t, entry.msg, "completed successfully in")
		}
	}
	assert.Len(t, starts, calls)
	assert.Len(t, ends, calls)
	for name, count := range starts {
		assert.Equal(t, 1, count, name)
		assert.Equal(t, 1, ends[name], name)
	}
}
