package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alfredjeanlab/dsm/internal/config"
	"github.com/alfredjeanlab/dsm/internal/logger"
	"github.com/alfredjeanlab/dsm/internal/model"
	"github.com/alfredjeanlab/dsm/internal/sender"
	"github.com/alfredjeanlab/dsm/internal/store"
	"github.com/alfredjeanlab/dsm/internal/ui"
	"github.com/alfredjeanlab/dsm/internal/webhook"
	"github.com/spf13/cobra"
)

// run executes one invocation. Exactly one mode applies, in this order:
// list, remove context, forget thread, send. Except for list, the contexts
// file is saved afterwards even when the mode failed, so settings given
// with -u/-s are kept.
func run(cmd *cobra.Command, opts *options, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if opts.configPath != "" {
		cfg.File = opts.configPath
	}
	if opts.timeout > 0 {
		cfg.Timeout = opts.timeout
	}
	if opts.verbose {
		cfg.LogLevel = "debug"
	}
	log := logger.New(cmd.ErrOrStderr(), cfg.LogLevel)

	st, err := store.Open(cfg.Path())
	if err != nil {
		return err
	}
	log.Debug().Str("path", cfg.Path()).Msg("loaded contexts")

	if opts.listContexts {
		return printContexts(cmd.OutOrStdout(), st.List(), opts.jsonOutput)
	}

	err = apply(cmd, cfg, opts, args, st, log)
	if saveErr := st.Save(); saveErr != nil {
		return errors.Join(err, saveErr)
	}
	return err
}

func apply(cmd *cobra.Command, cfg *config.Config, opts *options, args []string, st store.Store, log *logger.Logger) error {
	out := cmd.OutOrStdout()
	name := opts.context

	if opts.rmContext {
		if err := st.Delete(name); err != nil {
			return err
		}
		fmt.Fprintf(out, "Deleted context %q\n", name)
		return nil
	}

	if opts.rmThreadID {
		c, ok := st.Get(name)
		if !ok {
			return fmt.Errorf("%w: %q", store.ErrNotFound, name)
		}
		applyFlags(c, opts)
		c.ThreadID = ""
		fmt.Fprintf(out, "Cleared the thread_id from context %q\n", name)
		return nil
	}

	c, err := st.Resolve(name)
	if err != nil {
		return err
	}
	updated := applyFlags(c, opts)

	// Settings-only invocations never wait on stdin, which may stay open
	// without ever reaching EOF (ssh without -t, CI runners).
	if updated && len(args) == 0 {
		fmt.Fprintf(out, "Saved context %q\n", name)
		return nil
	}

	content, err := readMessage(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	if content == "" {
		log.Warn().Str("context", name).Msg("no message given, nothing sent")
		return nil
	}

	client := webhook.NewClient(webhook.Config{Timeout: cfg.Timeout, UserAgent: "dsm/" + version})
	s := sender.New(client, sender.Options{Username: cfg.Username, AvatarURL: cfg.AvatarURL}, log)

	res, err := s.Send(cmd.Context(), c, content, opts.newMessage)
	if err != nil {
		return err
	}
	if opts.jsonOutput {
		return printJSON(out, res)
	}
	return nil
}

// applyFlags copies -u/-s onto c and reports whether anything was set.
func applyFlags(c *model.Context, opts *options) bool {
	updated := false
	if opts.webhookURL != "" {
		c.WebhookURL = opts.webhookURL
		updated = true
	}
	if opts.subject != "" {
		c.Subject = opts.subject
		updated = true
	}
	return updated
}

// readMessage joins the positional words. Without words, a piped stdin
// supplies the message.
func readMessage(in io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return strings.TrimSpace(strings.Join(args, " ")), nil
	}
	if f, ok := in.(*os.File); ok && ui.IsTerminal(f) {
		return "", nil
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("reading message from stdin: %w", err)
	}
	content := strings.TrimRight(string(data), "\r\n")
	if strings.TrimSpace(content) == "" {
		return "", nil
	}
	return content, nil
}
