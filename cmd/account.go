package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/shelf/internal/shared"
	"github.com/desertthunder/shelf/internal/ui"
	"github.com/urfave/cli/v3"
)

func requirePassword(cmd *cli.Command) (string, error) {
	password := cmd.String("password")
	if password == "" {
		return "", fmt.Errorf("%w: --password or SHELF_PASSWORD is required", shared.ErrMissingArgument)
	}
	return password, nil
}

// Register creates an account. It does not log in.
func (r *Runner) Register(ctx context.Context, cmd *cli.Command) error {
	password, err := requirePassword(cmd)
	if err != nil {
		return err
	}

	id, err := r.client().Register(ctx, cmd.String("name"), cmd.String("email"), password)
	if err != nil {
		return err
	}

	r.logger.Debug("registered", "user_id", id)
	r.writePlain("%s\n", ui.Styles.OK("✓ Account created"))
	return r.writePlain("%s\n", ui.Styles.Help("Run 'shelf login --email "+cmd.String("email")+"' to start a session."))
}

// Login exchanges credentials for a session token and stores it with owner-only permissions.
func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	password, err := requirePassword(cmd)
	if err != nil {
		return err
	}

	res, err := r.client().Login(ctx, cmd.String("email"), password)
	if err != nil {
		return err
	}

	if err := r.saveSession(res.Token); err != nil {
		return err
	}

	r.logger.Debug("session saved", "path", r.sessionPath)
	return r.writePlain("%s\n", ui.Styles.OK(fmt.Sprintf("✓ Logged in as %s <%s>", res.User.Name, res.User.Email)))
}

// Logout ends the server session and removes the stored token. Both steps are idempotent.
func (r *Runner) Logout(ctx context.Context, cmd *cli.Command) error {
	token, err := r.loadSession()
	if err != nil {
		return err
	}

	if token != "" {
		if err := r.client().Logout(ctx); err != nil && !errors.Is(err, shared.ErrAuth) {
			r.logger.Warn("server logout failed, forgetting local session anyway", "error", err)
		}
	}

	if err := r.clearSession(); err != nil {
		return err
	}
	return r.writePlain("%s\n", ui.Styles.OK("✓ Logged out"))
}

// Whoami prints the user behind the stored session.
func (r *Runner) Whoami(ctx context.Context, cmd *cli.Command) error {
	c, err := r.authedClient()
	if err != nil {
		return err
	}

	user, err := c.Me(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(user, true)
	}
	return r.writePlain("%s <%s>\n%s\n", user.Name, user.Email, ui.Styles.Help("id: "+user.ID))
}
