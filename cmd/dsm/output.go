package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/alfredjeanlab/dsm/internal/model"
	"github.com/alfredjeanlab/dsm/internal/ui"
)

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// printContexts lists contexts as a table with webhook tokens masked, or
// as the raw JSON object when asJSON is set.
func printContexts(w io.Writer, contexts []*model.Context, asJSON bool) error {
	if asJSON {
		m := make(model.Contexts, len(contexts))
		for _, c := range contexts {
			m[c.Name] = c
		}
		return printJSON(w, m)
	}

	if len(contexts) == 0 {
		fmt.Fprintln(w, "There are no contexts yet.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSUBJECT\tTHREAD\tWEBHOOK")
	for _, c := range contexts {
		webhookURL := ui.MaskWebhook(c.WebhookURL)
		if webhookURL == "" {
			webhookURL = "-"
		}
		thread := c.ThreadID
		if thread == "" {
			thread = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Name, c.Subject, thread, webhookURL)
	}
	return tw.Flush()
}
