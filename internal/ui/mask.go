package ui

import (
	"net/url"
	"strings"
)

// MaskWebhook hides the secret token of a webhook URL, keeping its first
// four characters: https://discord.com/api/webhooks/123/abcd****.
func MaskWebhook(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Path == "" {
		return maskTail(raw)
	}
	path := strings.TrimRight(u.Path, "/")
	i := strings.LastIndex(path, "/")
	if i < 0 {
		return maskTail(raw)
	}
	u.RawQuery = ""
	u.Path = path[:i+1] + maskTail(path[i+1:])
	return u.Scheme + "://" + u.Host + u.Path
}

func maskTail(s string) string {
	const keep = 4
	if len(s) <= keep {
		return strings.Repeat("*", len(s))
	}
	return s[:keep] + strings.Repeat("*", len(s)-keep)
}
