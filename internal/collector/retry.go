package collector

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Retry runs fn up to attempts times, waiting a fixed delay between tries.
// It stops early when ctx is done.
func Retry(ctx context.Context, attempts int, delay time.Duration, what string, fn func(ctx context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		log.Printf("[WARN] %s failed (attempt %d/%d): %v, retrying in %v", what, i+1, attempts, lastErr, delay)
		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", what, ctx.Err())
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("%s: all %d attempts failed: %w", what, attempts, lastErr)
}
