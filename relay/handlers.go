package relay

import (
	"context"
	"fmt"
	"html"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/applesignin/browser"
	"github.com/kbukum/applesignin/errors"
	"github.com/kbukum/applesignin/logger"
	"github.com/kbukum/applesignin/observability"
	"github.com/kbukum/applesignin/resilience"
	"github.com/kbukum/applesignin/server"
	"github.com/kbukum/applesignin/server/endpoint"
	"github.com/kbukum/applesignin/server/middleware"
	"github.com/kbukum/applesignin/session"
)

// capturePage reads the fragment, which browsers never send to a server,
// and posts it to the relay.
const capturePage = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>Sign in with Apple</title></head>
<body>
<p id="status">Completing sign-in...</p>
<script>
(function () {
  var status = document.getElementById('status');
  var fragment = location.hash ? location.hash.substring(1) : '';
  history.replaceState(null, '', location.pathname);
  fetch('` + PathFragment + `', {
    method: 'POST',
    headers: {'Content-Type': 'text/plain'},
    body: fragment
  }).then(function (r) { return r.json(); })
    .then(function (j) { status.textContent = j.message || 'You can close this window.'; })
    .catch(function () { status.textContent = 'Sign-in could not be completed. You can close this window.'; });
})();
</script>
</body>
</html>
`

type messageResponse struct {
	Outcome string `json:"outcome"`
	Message string `json:"message"`
}

func (r *Relay) registerRoutes(engine *gin.Engine) {
	limiter := resilience.NewRateLimiter(resilience.RateLimiterConfig{
		Name:  "relay_capture",
		Rate:  r.cfg.CaptureRate,
		Burst: r.cfg.CaptureBurst,
	})
	throttle := middleware.GinWrap(middleware.RateLimit(limiter, r.log))

	engine.GET(r.cfg.CallbackPath, r.handleCapturePage)
	engine.POST(r.cfg.CallbackPath, throttle, r.handleFormPost)
	engine.POST(PathFragment, throttle, r.handleFragment)
	engine.GET(PathHealth, endpoint.Health("applesignin-relay", r.version, r))
}

func (r *Relay) handleCapturePage(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Header("Referrer-Policy", "no-referrer")
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(capturePage))
}

// handleFragment receives the fragment posted by the capture page and hands
// the rebuilt redirect URL to the host.
func (r *Relay) handleFragment(c *gin.Context) {
	host := r.activeHost()
	if host == nil {
		server.RespondWithError(c, errors.Conflict("No sign-in in progress"))
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		server.RespondWithError(c, errors.MalformedRedirect("Failed to read redirect fragment").WithCause(err))
		return
	}

	target := host.Session().RedirectURI()
	if fragment := trimFragment(string(body)); fragment != "" {
		target += "#" + fragment
	}
	if !host.ShouldOverrideURLLoading(target) {
		server.RespondWithError(c, errors.Conflict("Redirect was not accepted"))
		return
	}
	c.JSON(http.StatusOK, resultMessage(host.Session()))
}

// handleFormPost receives a form_post response from the provider.
func (r *Relay) handleFormPost(c *gin.Context) {
	host := r.activeHost()
	if host == nil {
		server.RespondWithError(c, errors.Conflict("No sign-in in progress"))
		return
	}
	if err := c.Request.ParseForm(); err != nil {
		r.log.Warn("parsing posted form failed", logger.ErrorFields("parse_form", err))
	}

	host.InterceptRequest(browser.Request{
		Method: c.Request.Method,
		URL:    host.Session().RedirectURI(),
		Form:   c.Request.PostForm,
	})
	msg := resultMessage(host.Session())
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(fmt.Sprintf(
		"<!doctype html><html><head><meta charset=\"utf-8\"><title>Sign in with Apple</title></head><body><p>%s</p></body></html>",
		html.EscapeString(msg.Message),
	)))
}

func resultMessage(sess *session.Session) messageResponse {
	out, ok := sess.Outcome()
	if !ok {
		return messageResponse{Outcome: "pending", Message: "Sign-in is still in progress."}
	}
	switch out.Kind {
	case session.OutcomeSuccess:
		return messageResponse{Outcome: out.Kind.String(), Message: "Signed in. You can close this window."}
	case session.OutcomeError:
		return messageResponse{Outcome: out.Kind.String(), Message: "Sign-in failed: " + out.Description + ". You can close this window."}
	default:
		return messageResponse{Outcome: out.Kind.String(), Message: "Sign-in was cancelled. You can close this window."}
	}
}

// CheckHealth reports the listener and the attempt it serves.
func (r *Relay) CheckHealth(context.Context) observability.Health {
	r.mu.Lock()
	defer r.mu.Unlock()

	h := observability.Health{
		Name:    "relay",
		Status:  observability.HealthStatusUp,
		Details: map[string]string{"attempt": "none"},
	}
	if r.closed {
		h.Status = observability.HealthStatusDown
		h.Message = "relay closed"
	}
	if r.host != nil {
		h.Details["attempt"] = r.host.Session().Phase().String()
	}
	return h
}
