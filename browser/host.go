package browser

import (
	"net/http"
	"strings"
	"sync"

	"github.com/kbukum/applesignin/bridge"
	"github.com/kbukum/applesignin/logger"
	"github.com/kbukum/applesignin/redirect"
	"github.com/kbukum/applesignin/session"
)

// HostOption configures a Host.
type HostOption func(*Host)

// WithLogger sets the host logger.
func WithLogger(l *logger.Logger) HostOption {
	return func(h *Host) {
		if l != nil {
			h.log = l
		}
	}
}

// Host binds one session to one surface.
type Host struct {
	sess *session.Session
	sink ResultSink
	log  *logger.Logger

	mu      sync.Mutex
	surface Surface
	loaded  string
	closed  bool

	closeOnce sync.Once
	forwarded chan struct{}
}

// NewHost creates a host and starts forwarding the session's terminal
// outcome to sink.
func NewHost(sess *session.Session, sink ResultSink, opts ...HostOption) *Host {
	h := &Host{
		sess:      sess,
		sink:      sink,
		log:       logger.Nop(),
		forwarded: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.log = h.log.WithComponent("browser")
	go h.forward()
	return h
}

// Session returns the session driven by the host.
func (h *Host) Session() *session.Session {
	return h.sess
}

// Forwarded is closed after the terminal outcome has been handed to the
// sink and the surface was closed.
func (h *Host) Forwarded() <-chan struct{} {
	return h.forwarded
}

// Attach binds surface and loads the authorization URL. Without a sink or a
// redirect URI the attempt fails and the surface is closed.
func (h *Host) Attach(surface Surface) {
	h.mu.Lock()
	h.surface = surface
	closed := h.closed
	h.mu.Unlock()

	if closed {
		surface.Close()
		return
	}
	if h.sink == nil {
		h.log.Error("no result channel, closing surface")
		h.sess.EmitError("Result channel missing")
		h.closeSurface()
		return
	}
	if h.sess.RedirectURI() == "" {
		h.sess.EmitError("Redirect URI missing")
		return
	}
	h.OnStateChanged(h.sess.UIState())
}

// OnStateChanged loads the authorization URL when it differs from what the
// surface already shows. Use it as the session's state listener.
func (h *Host) OnStateChanged(ui session.UIState) {
	h.mu.Lock()
	surface := h.surface
	if surface == nil || h.closed || ui.AuthURL == "" || ui.AuthURL == h.loaded {
		h.mu.Unlock()
		return
	}
	h.loaded = ui.AuthURL
	h.mu.Unlock()
	surface.Load(ui.AuthURL)
}

// ShouldOverrideURLLoading is the GET redirect decision point. It reports
// whether the navigation to url must be cancelled. Without a redirect URI the
// surface is closed and the attempt resolves as cancelled.
func (h *Host) ShouldOverrideURLLoading(url string) bool {
	redirectURI := h.sess.RedirectURI()
	if redirectURI == "" {
		h.log.Warn("redirect URI unset, closing surface")
		h.closeSurface()
		if h.sink != nil {
			h.sink.Teardown()
		}
		h.sess.OnUserCancelled()
		return false
	}
	if !strings.HasPrefix(url, redirectURI) {
		return false
	}
	h.log.Debug("redirect intercepted", logger.Fields(logger.FieldRedirectURI, redirectURI))
	h.sess.HandleRedirectURL(url)
	return true
}

// InterceptRequest handles a form POST to the redirect URI. The pending load
// is stopped and the posted fields are rebuilt into a fragment URL from the
// request body, an injected script or the page document, in that order.
// It reports whether req was intercepted.
func (h *Host) InterceptRequest(req Request) bool {
	redirectURI := h.sess.RedirectURI()
	if redirectURI == "" || !strings.EqualFold(req.Method, http.MethodPost) || !strings.Contains(req.URL, redirectURI) {
		return false
	}
	h.log.Debug("form post intercepted", logger.Fields(
		logger.FieldMethod, req.Method,
		logger.FieldRedirectURI, redirectURI,
	))

	surface := h.currentSurface()
	if surface != nil {
		surface.StopLoading()
	}

	if len(req.Form) > 0 {
		h.sess.HandleRedirectURL(redirect.SyntheticURL(redirectURI, req.Form))
		return true
	}
	if runner, ok := surface.(ScriptRunner); ok {
		runner.EvaluateScript(redirect.FormCaptureScript(redirectURI), func(result string) {
			if !strings.HasPrefix(result, redirectURI+"#") {
				h.sess.EmitError("Failed to capture posted form")
				return
			}
			h.sess.HandleRedirectURL(result)
		})
		return true
	}
	if reader, ok := surface.(DocumentReader); ok {
		doc, err := reader.Document()
		if err != nil {
			h.log.Warn("reading document failed", logger.ErrorFields("read_document", err))
			h.sess.EmitError("Failed to capture posted form")
			return true
		}
		fields, err := redirect.FormFieldsFromHTML(doc, redirectURI)
		if err != nil {
			h.log.Warn("form capture failed", logger.ErrorFields("capture_form", err))
			h.sess.EmitError("Failed to capture posted form")
			return true
		}
		h.sess.HandleRedirectURL(redirect.SyntheticURL(redirectURI, fields))
		return true
	}

	h.sess.EmitError("Unable to capture posted form")
	return true
}

// OnPageFinished records the surface's back history.
func (h *Host) OnPageFinished(url string) {
	if surface := h.currentSurface(); surface != nil {
		h.sess.UpdateNavigationState(surface.CanGoBack())
	}
}

// OnBackPressed navigates back, or cancels the attempt when there is no
// history left.
func (h *Host) OnBackPressed() {
	if surface := h.currentSurface(); surface != nil && surface.CanGoBack() {
		surface.GoBack()
		return
	}
	h.sess.OnUserCancelled()
}

// OnSurfaceDestroyed handles the platform tearing the surface down. An
// undelivered attempt resolves as cancelled.
func (h *Host) OnSurfaceDestroyed() {
	h.mu.Lock()
	h.closed = true
	h.surface = nil
	h.mu.Unlock()

	if h.sink != nil && h.sink.Teardown() {
		h.log.Info("surface destroyed before a result, cancelling")
	}
	h.sess.OnUserCancelled()
}

func (h *Host) currentSurface() Surface {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.surface
}

func (h *Host) closeSurface() {
	h.closeOnce.Do(func() {
		h.mu.Lock()
		surface := h.surface
		already := h.closed
		h.closed = true
		h.mu.Unlock()
		if surface != nil && !already {
			surface.Close()
		}
	})
}

func (h *Host) forward() {
	defer close(h.forwarded)
	<-h.sess.Done()

	out, _ := h.sess.Outcome()
	code, data := ToMessage(out)
	if h.sink != nil && h.sink.Deliver(code, data) {
		h.log.Debug("result delivered", logger.Fields(
			logger.FieldOutcome, out.Kind.String(),
			logger.FieldResultCode, code.String(),
		))
	}
	h.closeSurface()
}

// ToMessage maps a terminal outcome onto the result channel's wire form.
func ToMessage(out session.Outcome) (bridge.ResultCode, map[string]string) {
	switch out.Kind {
	case session.OutcomeSuccess:
		return bridge.ResultOK, out.Data
	case session.OutcomeError:
		return bridge.ResultCanceled, out.ErrorData()
	default:
		return bridge.ResultCanceled, nil
	}
}
