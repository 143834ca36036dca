package gemini

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"google.golang.org/genai"
)

var retryDelayPattern = regexp.MustCompile(`retry_delay.*?seconds:\s*(\d+)`)

// IsQuotaError reports whether an error is a daily-quota or rate-limit
// rejection that warrants rotating to the next API key.
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == 429 {
			return true
		}
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") && strings.Contains(msg, "quota")
}

// RetryDelay extracts the wait the API suggested in a quota error, plus a
// one second buffer. Returns false when the error carries no suggestion.
func RetryDelay(err error) (time.Duration, bool) {
	if err == nil {
		return 0, false
	}
	m := retryDelayPattern.FindStringSubmatch(strings.ToLower(err.Error()))
	if m == nil {
		return 0, false
	}
	seconds, convErr := strconv.Atoi(m[1])
	if convErr != nil {
		return 0, false
	}
	return time.Duration(seconds+1) * time.Second, true
}
