package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskWebhook(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"https://discord.com/api/webhooks/123/abcdefgh", "https://discord.com/api/webhooks/123/abcd****"},
		{"https://discord.com/api/webhooks/123/abcdefgh/", "https://discord.com/api/webhooks/123/abcd****"},
		{"https://discord.com/api/webhooks/123/abc?x=1", "https://discord.com/api/webhooks/123/***"},
		{"not-a-url-secret", "not-************"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := MaskWebhook(tt.in)
			assert.Equal(t, tt.want, got)
			if tt.in != "" {
				assert.False(t, strings.Contains(got, "efgh"), "token leaked: %s", got)
			}
		})
	}
}

func TestShouldUseColor_Env(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.False(t, ShouldUseColor())

	t.Setenv("NO_COLOR", "")
	t.Setenv("CLICOLOR_FORCE", "1")
	assert.True(t, ShouldUseColor())

	t.Setenv("CLICOLOR_FORCE", "")
	t.Setenv("CLICOLOR", "0")
	assert.False(t, ShouldUseColor())
}

func TestRender(t *testing.T) {
	assert.Equal(t, "\x1b[38;5;74mhi\x1b[0m", RenderAccent("hi"))

	t.Cleanup(func() { noColor = false })
	ForceNoColor()
	assert.Equal(t, "hi", RenderMuted("hi"))
}
