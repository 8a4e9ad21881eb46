// Package sender posts messages for a context, opening a new forum thread
// or replying to the one the context remembers.
package sender

import (
	"context"
	"time"

	"github.com/alfredjeanlab/dsm/internal/idgen"
	"github.com/alfredjeanlab/dsm/internal/logger"
	"github.com/alfredjeanlab/dsm/internal/model"
	"github.com/alfredjeanlab/dsm/internal/webhook"
)

// Executor runs one webhook call. *webhook.Client implements it.
type Executor interface {
	Execute(ctx context.Context, webhookURL string, msg *webhook.Message, threadID string) (*webhook.Result, error)
}

// Options customise outgoing messages.
type Options struct {
	Username  string
	AvatarURL string
}

// Sender sends messages and keeps each context's thread id current.
type Sender struct {
	exec Executor
	opts Options
	log  *logger.Logger
	now  func() time.Time
}

// New returns a Sender. A nil logger discards logs.
func New(exec Executor, opts Options, log *logger.Logger) *Sender {
	if log == nil {
		log = logger.Nop()
	}
	return &Sender{exec: exec, opts: opts, log: log, now: time.Now}
}

// Send posts content using c. When newThread is set, or c has no thread
// yet, a new forum post titled after c's subject is created and its id is
// stored in c.ThreadID. Otherwise the message is a reply in c.ThreadID.
func (s *Sender) Send(ctx context.Context, c *model.Context, content string, newThread bool) (*webhook.Result, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	log := s.log.WithField("context", c.Name)
	if id, err := idgen.Delivery(); err == nil {
		log = log.WithField("delivery", id)
	}

	msg := &webhook.Message{
		Content:   content,
		Username:  s.opts.Username,
		AvatarURL: s.opts.AvatarURL,
	}
	if newThread {
		c.ThreadID = ""
	}
	if c.ThreadID == "" {
		msg.ThreadName = c.ThreadTitle(s.now())
		log.Debug().Str("thread_name", msg.ThreadName).Msg("opening new thread")
	} else {
		log.Debug().Str("thread_id", c.ThreadID).Msg("replying in thread")
	}

	res, err := s.exec.Execute(ctx, c.WebhookURL, msg, c.ThreadID)
	if err != nil {
		log.Debug().Err(err).Msg("webhook failed")
		return nil, err
	}

	if c.ThreadID == "" {
		c.ThreadID = res.ID
		log.Info().Str("thread_id", res.ID).Msg("thread created")
	}
	log.Debug().Str("message_id", res.ID).Msg("message sent")
	return res, nil
}
