package session

// Phase is the lifecycle position of a Session.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAwaitingRedirect
	PhaseValidating
	PhaseTerminal
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAwaitingRedirect:
		return "awaiting_redirect"
	case PhaseValidating:
		return "validating"
	case PhaseTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// OutcomeKind tags a terminal Outcome.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeError
	OutcomeCancelled
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeError:
		return "error"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// ErrorReason classifies an error outcome so it can be mapped onto the
// error taxonomy on the caller's side.
type ErrorReason int

const (
	ReasonGeneric ErrorReason = iota
	ReasonSecurity
	ReasonProvider
	ReasonMalformed
)

func (r ErrorReason) String() string {
	switch r {
	case ReasonSecurity:
		return "security"
	case ReasonProvider:
		return "provider"
	case ReasonMalformed:
		return "malformed"
	default:
		return "generic"
	}
}

// ParseErrorReason is the inverse of ErrorReason.String. Unknown names map
// to ReasonGeneric.
func ParseErrorReason(s string) ErrorReason {
	switch s {
	case "security":
		return ReasonSecurity
	case "provider":
		return ReasonProvider
	case "malformed":
		return ReasonMalformed
	default:
		return ReasonGeneric
	}
}

// Keys of the error payload carried across the result channel.
const (
	KeyError            = "error"
	KeyErrorDescription = "error_description"
	KeyErrorKind        = "error_kind"

	// ProcessingErrorCode is the error code of failures raised locally
	// rather than by the provider.
	ProcessingErrorCode = "redirect_processing_error"
)

// Outcome is the terminal result of one attempt.
type Outcome struct {
	Kind OutcomeKind
	// Data is the success payload: only "code" and "id_token", never "state".
	Data map[string]string
	// ErrorCode and Description are set for OutcomeError.
	ErrorCode   string
	Description string
	Reason      ErrorReason
}

// ErrorData returns the error payload delivered over the result channel,
// or nil for non-error outcomes.
func (o Outcome) ErrorData() map[string]string {
	if o.Kind != OutcomeError {
		return nil
	}
	return map[string]string{
		KeyError:            o.ErrorCode,
		KeyErrorDescription: o.Description,
		KeyErrorKind:        o.Reason.String(),
	}
}

func successOutcome(data map[string]string) Outcome {
	return Outcome{Kind: OutcomeSuccess, Data: data}
}

func errorOutcome(reason ErrorReason, message string) Outcome {
	return Outcome{
		Kind:        OutcomeError,
		ErrorCode:   ProcessingErrorCode,
		Description: message,
		Reason:      reason,
	}
}

func providerOutcome(code, description string) Outcome {
	return Outcome{
		Kind:        OutcomeError,
		ErrorCode:   code,
		Description: description,
		Reason:      ReasonProvider,
	}
}

// UIState is what the browser host renders: the URL to load, whether back
// navigation is possible and the terminal status.
type UIState struct {
	AuthURL      string `json:"auth_url,omitempty"`
	CanGoBack    bool   `json:"can_go_back"`
	IsSuccess    bool   `json:"is_success"`
	ErrorMessage string `json:"error_message,omitempty"`
}
