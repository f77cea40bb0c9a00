package middleware

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	tele "gopkg.in/telebot.v3"
)

// fakeContext implements only what the middleware reads
type fakeContext struct {
	tele.Context
	sender *tele.User
}

func (c *fakeContext) Sender() *tele.User {
	return c.sender
}

func TestSerializeUsers(t *testing.T) {
	var running, maxRunning int32

	handler := SerializeUsers()(func(c tele.Context) error {
		now := atomic.AddInt32(&running, 1)
		for {
			prev := atomic.LoadInt32(&maxRunning)
			if now <= prev || atomic.CompareAndSwapInt32(&maxRunning, prev, now) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&running, -1)
		return nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, handler(&fakeContext{sender: &tele.User{ID: 42}}))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxRunning)
}

func TestSerializeUsers_NoSender(t *testing.T) {
	called := false
	handler := SerializeUsers()(func(c tele.Context) error {
		called = true
		return nil
	})

	assert.NoError(t, handler(&fakeContext{}))
	assert.True(t, called)
}

func TestLogUpdates(t *testing.T) {
	tests := []struct {
		name          string
		handlerError  error
		expectedLevel string
	}{
		{
			name:          "success",
			expectedLevel: "debug",
		},
		{
			name:          "failure",
			handlerError:  fmt.Errorf("telegram: bad request"),
			expectedLevel: "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.DebugLevel)

			handler := LogUpdates(zap.New(core))(func(c tele.Context) error {
				return tt.handlerError
			})

			err := handler(&fakeContext{sender: &tele.User{ID: 7}})

			assert.Equal(t, tt.handlerError, err)
			entries := logs.All()
			if assert.Len(t, entries, 1) {
				assert.Equal(t, tt.expectedLevel, entries[0].Level.String())
				assert.Equal(t, int64(7), entries[0].ContextMap()["user_id"])
			}
		})
	}
}
