package checker

import (
	"net/http"
	"time"

	"github.com/handlelens/handlelens/internal/core/fetch"
)

func retryAfterExtra(ev *fetch.Evidence) (time.Duration, map[string]any) {
	if ev == nil || ev.RetryAfter == "" {
		return 0, nil
	}

	retry := ev.RetryAfter
	if seconds, err := time.ParseDuration(retry + "s"); err == nil {
		return seconds, map[string]any{"retry_after": retry}
	}
	if parsed, err := http.ParseTime(retry); err == nil {
		return time.Until(parsed), map[string]any{"retry_after": retry}
	}

	return 0, map[string]any{"retry_after": retry}
}

func isRedirect(status int) bool {
	switch status {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}
	return false
}
