package model

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"dario.cat/mergo"
)

// DefaultName is the context used when none is selected. It doubles as the
// template new contexts inherit their settings from.
const DefaultName = "default"

// DefaultSubject is the thread subject used when a context has none.
const DefaultSubject = "Potato"

var (
	ErrMissingWebhook = errors.New("missing webhook_url")
	ErrInvalidWebhook = errors.New("invalid webhook_url")
)

// Context is a named webhook configuration.
type Context struct {
	Name       string `json:"name" toml:"name"`
	WebhookURL string `json:"webhook_url,omitempty" toml:"webhook_url,omitempty"`
	Subject    string `json:"subject,omitempty" toml:"subject,omitempty"`
	// ThreadID is the forum thread replies go to. Empty means the next
	// message opens a new thread.
	ThreadID string `json:"thread_id,omitempty" toml:"thread_id,omitempty"`
}

// Contexts maps context names to their settings.
type Contexts map[string]*Context

// NewContexts returns the contents of a fresh config file.
func NewContexts() Contexts {
	return Contexts{DefaultName: {Name: DefaultName}}
}

// Clone returns a copy of c.
func (c *Context) Clone() *Context {
	cp := *c
	return &cp
}

// Inherit fills the unset fields of c from tmpl. The name and the thread
// id belong to c alone and are never inherited.
func (c *Context) Inherit(tmpl *Context) error {
	if tmpl == nil {
		return nil
	}
	src := tmpl.Clone()
	src.Name = ""
	src.ThreadID = ""
	if err := mergo.Merge(c, src); err != nil {
		return fmt.Errorf("inheriting from %q: %w", tmpl.Name, err)
	}
	return nil
}

// ThreadTitle returns the name a new forum thread gets when opened on day.
func (c *Context) ThreadTitle(day time.Time) string {
	subject := c.Subject
	if subject == "" {
		subject = DefaultSubject
	}
	return day.Format(time.DateOnly) + " " + subject
}

// Validate checks that c can be used to send a message.
func (c *Context) Validate() error {
	if c.WebhookURL == "" {
		return fmt.Errorf("context %q: %w; set one with --webhook-url", c.Name, ErrMissingWebhook)
	}
	u, err := url.Parse(c.WebhookURL)
	if err != nil {
		return fmt.Errorf("context %q: %w: %v", c.Name, ErrInvalidWebhook, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("context %q: %w: %q is not an http(s) URL", c.Name, ErrInvalidWebhook, c.WebhookURL)
	}
	return nil
}
