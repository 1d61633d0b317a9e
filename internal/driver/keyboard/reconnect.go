package keyboard

import (
	"fmt"
	"log"
	"time"

	"ledkbd/internal/driver/drivererr"
)

const (
	defaultReconnectAttempts = 10
	defaultReconnectInterval = time.Second
)

func (k *Keyboard) reconnectAttempts() int {
	if k.cfg.ReconnectAttempts > 0 {
		return k.cfg.ReconnectAttempts
	}
	return defaultReconnectAttempts
}

func (k *Keyboard) reconnectInterval() time.Duration {
	if k.cfg.ReconnectInterval > 0 {
		return k.cfg.ReconnectInterval
	}
	return defaultReconnectInterval
}

// reconnect retries Transport.Reconnect up to the configured attempt
// count, sleeping the configured interval between attempts. The first
// success returns nil; exhausting every attempt returns
// ErrReconnectExhausted wrapping the last observed error.
func (k *Keyboard) reconnect() error {
	attempts := k.reconnectAttempts()
	interval := k.reconnectInterval()

	log.Printf("ledkbd: device connection lost, attempting reconnect (up to %d attempts)", attempts)

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := k.transport.Reconnect(); err != nil {
			lastErr = err
			log.Printf("ledkbd: reconnect attempt %d/%d failed: %v", attempt, attempts, err)
			time.Sleep(interval)
			continue
		}
		log.Printf("ledkbd: reconnect attempt %d/%d succeeded", attempt, attempts)
		return nil
	}

	return fmt.Errorf("%w: last error: %w", drivererr.ErrReconnectExhausted, lastErr)
}
