package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/shelf/internal/shared"
	"github.com/desertthunder/shelf/internal/ui"
	"github.com/urfave/cli/v3"
)

// ActivityList prints recent activity. Without a session the server returns an empty feed.
func (r *Runner) ActivityList(ctx context.Context, cmd *cli.Command) error {
	entries, err := r.client().Activity(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(entries, true)
	}
	return r.writePlain("%s\n", ui.ActivityList(entries))
}

// ActivityAdd records a free-form entry.
func (r *Runner) ActivityAdd(ctx context.Context, cmd *cli.Command) error {
	message := strings.TrimSpace(cmd.StringArg("message"))
	if message == "" {
		return fmt.Errorf("%w: message is required", shared.ErrMissingArgument)
	}

	c, err := r.authedClient()
	if err != nil {
		return err
	}
	if err := c.RecordActivity(ctx, message); err != nil {
		return err
	}
	return r.writePlain("%s\n", ui.Styles.OK("✓ Recorded"))
}

// ActivityClear deletes the user's activity entries.
func (r *Runner) ActivityClear(ctx context.Context, cmd *cli.Command) error {
	c, err := r.authedClient()
	if err != nil {
		return err
	}
	if err := c.ClearActivity(ctx); err != nil {
		return err
	}
	return r.writePlain("%s\n", ui.Styles.OK("✓ Activity cleared"))
}
