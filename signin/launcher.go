package signin

import (
	"context"

	"github.com/kbukum/applesignin/browser"
)

// Launcher creates the browser surface of an attempt and attaches it to
// host. It must not block until the attempt finishes.
type Launcher interface {
	Launch(ctx context.Context, host *browser.Host) error
}

// LauncherFunc adapts a function to Launcher.
type LauncherFunc func(ctx context.Context, host *browser.Host) error

// Launch calls f.
func (f LauncherFunc) Launch(ctx context.Context, host *browser.Host) error {
	return f(ctx, host)
}
