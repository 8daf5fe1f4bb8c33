package browser

import (
	"io"
	"net/url"

	"github.com/kbukum/applesignin/bridge"
)

// Surface is a browser the host can drive. All methods are called from the
// surface's own callbacks or from the host's forwarding goroutine and must
// be safe for that.
type Surface interface {
	Load(url string)
	StopLoading()
	CanGoBack() bool
	GoBack()
	Close()
}

// ScriptRunner is implemented by surfaces that can evaluate JavaScript in
// the current page. done receives the script's string result.
type ScriptRunner interface {
	EvaluateScript(script string, done func(result string))
}

// DocumentReader is implemented by surfaces that can expose the current
// page's HTML.
type DocumentReader interface {
	Document() (io.Reader, error)
}

// Request is an outgoing request observed by the surface.
type Request struct {
	Method string
	URL    string
	// Form holds the posted fields when the surface can read the body.
	Form url.Values
}

// ResultSink receives the terminal result. bridge.Channel implements it.
type ResultSink interface {
	Deliver(code bridge.ResultCode, data map[string]string) bool
	Teardown() bool
}
