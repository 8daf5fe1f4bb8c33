package relay

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/kbukum/applesignin/process"
)

const openTimeout = 10 * time.Second

// SystemOpener opens url in the default browser of the desktop session.
func SystemOpener(url string) error {
	cmd, err := browserCommand(runtime.GOOS, url)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), openTimeout)
	defer cancel()
	if _, err := process.Run(ctx, cmd); err != nil {
		return fmt.Errorf("open browser: %w", err)
	}
	return nil
}

func browserCommand(goos, url string) (process.Command, error) {
	switch goos {
	case "darwin":
		return process.Command{Binary: "open", Args: []string{url}}, nil
	case "windows":
		return process.Command{Binary: "rundll32", Args: []string{"url.dll,FileProtocolHandler", url}}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return process.Command{Binary: "xdg-open", Args: []string{url}}, nil
	default:
		return process.Command{}, fmt.Errorf("opening a browser is not supported on %s", goos)
	}
}
