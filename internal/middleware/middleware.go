package middleware

import (
	"sync"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// SerializeUsers runs the updates of one user one at a time.
// A practice session must not get a second answer while the first is being checked.
func SerializeUsers() tele.MiddlewareFunc {
	var (
		mu    sync.Mutex
		locks = make(map[int64]*sync.Mutex)
	)

	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil {
				return next(c)
			}

			mu.Lock()
			lock, exists := locks[sender.ID]
			if !exists {
				lock = &sync.Mutex{}
				locks[sender.ID] = lock
			}
			mu.Unlock()

			lock.Lock()
			defer lock.Unlock()

			return next(c)
		}
	}
}

// LogUpdates logs each handled update with its duration and error
func LogUpdates(logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			start := time.Now()
			err := next(c)

			fields := []zap.Field{zap.Duration("duration", time.Since(start))}
			if sender := c.Sender(); sender != nil {
				fields = append(fields, zap.Int64("user_id", sender.ID))
			}
			if err != nil {
				logger.Error("Failed to handle update", append(fields, zap.Error(err))...)
				return err
			}

			logger.Debug("Update handled", fields...)
			return nil
		}
	}
}
