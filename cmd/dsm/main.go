package main

import (
	"os"
	"time"

	"github.com/alfredjeanlab/dsm/internal/model"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// options holds the parsed command-line flags of one invocation.
type options struct {
	context      string
	newMessage   bool
	subject      string
	webhookURL   string
	listContexts bool
	rmContext    bool
	rmThreadID   bool

	configPath string
	timeout    time.Duration
	verbose    bool
	jsonOutput bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "dsm [flags] [message...]",
		Short: "Send messages in threads to Discord forum channels",
		Long: `dsm posts messages to Discord forum channels through webhooks.

Settings are kept in named contexts (webhook URL, subject and the thread
last posted to). The first message on a context opens a new forum post
titled "<date> <subject>"; later messages are replies in that post until
--new-message is given.

With no message words and stdin not a terminal, the message is read from stdin.`,
		Example: `  dsm -c builds -u https://discord.com/api/webhooks/ID/TOKEN -s "Nightly builds"
  dsm -c builds "build 1432 passed"
  dsm -c builds -n "starting the 1.4 release"
  make test 2>&1 | tail -20 | dsm -c builds
  dsm --list-contexts`,
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.context, "context", "c", model.DefaultName, "context name to use")
	f.BoolVarP(&opts.newMessage, "new-message", "n", false, "send as a new forum post, not a reply")
	f.StringVarP(&opts.subject, "subject", "s", "", "set the subject used to title new posts")
	f.StringVarP(&opts.webhookURL, "webhook-url", "u", "", "set the webhook URL requests are sent to")
	f.BoolVarP(&opts.listContexts, "list-contexts", "l", false, "list known contexts instead of sending")
	f.BoolVar(&opts.rmContext, "rm-context", false, "remove the selected context")
	f.BoolVar(&opts.rmThreadID, "rm-thread-id", false, "forget the thread of the selected context")
	f.StringVar(&opts.configPath, "config", "", "contexts file, .json or .toml (default $XDG_CONFIG_DIR/discord_send_message.json)")
	f.DurationVar(&opts.timeout, "timeout", 0, "HTTP timeout, e.g. 10s (default $DSM_TIMEOUT or 15s)")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug details to stderr")
	f.BoolVar(&opts.jsonOutput, "json", false, "output as JSON")

	cmd.SetHelpFunc(colorizedHelpFunc())
	return cmd
}

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		cmd.PrintErrln("Error:", err)
		os.Exit(1)
	}
}
