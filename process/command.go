package process

import "time"

// Command configures a short-lived helper process, such as the platform
// tool that hands a URL to the desktop browser.
type Command struct {
	// Binary is the executable path or name (resolved via PATH).
	Binary string
	// Args are the command-line arguments.
	Args []string
	// Env is additional environment variables (key=value). Merged with os.Environ.
	Env []string
	// WaitDelay bounds how long Run waits for output pipes after the
	// process is killed by its context. Defaults to 2 seconds.
	WaitDelay time.Duration
}
