// Package ui launches the dashboard.
package ui

import (
	"context"
	"time"

	"tableflip.dev/firemap/pkg/tui/dashboard"
	"tableflip.dev/firemap/pkg/tui/theme"
)

type UI struct {
	Options       dashboard.Options
	StatusDisplay time.Duration
}

func (u *UI) Do(_ context.Context) error {
	opts := u.Options
	if u.StatusDisplay > 0 {
		opts.StatusDisplay = u.StatusDisplay
	}
	opts.Theme = theme.Detect()
	return dashboard.Run(opts)
}
