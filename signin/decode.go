package signin

import (
	"github.com/kbukum/applesignin/appleid"
	"github.com/kbukum/applesignin/bridge"
	"github.com/kbukum/applesignin/errors"
	"github.com/kbukum/applesignin/session"
)

// decodeMessage maps a result channel message onto a credential or one of
// the library's errors.
func decodeMessage(msg bridge.Message, expectedState string) (appleid.Credential, error) {
	switch msg.Code {
	case bridge.ResultOK:
		return decodeSuccess(msg.Data, expectedState)
	case bridge.ResultCanceled:
		return appleid.Credential{}, decodeFailure(msg.Data)
	default:
		return appleid.Credential{}, errors.TransportUnknown(int(msg.Code))
	}
}

func decodeSuccess(data map[string]string, expectedState string) (appleid.Credential, error) {
	if data == nil {
		return appleid.Credential{}, errors.MalformedRedirect("No result data")
	}
	if received, ok := data["state"]; ok && received != expectedState {
		return appleid.Credential{}, errors.SecurityValidationFailed("")
	}

	cred := appleid.Credential{
		IdentityToken: data["id_token"],
		Code:          data["code"],
	}
	switch {
	case cred.IdentityToken != "" || cred.Code != "":
		return cred, nil
	case data[session.KeyError] != "":
		return appleid.Credential{}, errors.ProviderError(data[session.KeyError], data[session.KeyErrorDescription])
	default:
		return appleid.Credential{}, errors.MalformedRedirect("Unknown Apple login result")
	}
}

func decodeFailure(data map[string]string) error {
	if data == nil {
		return errors.Cancelled("")
	}

	description := data[session.KeyErrorDescription]
	if description == "" {
		description = "Authentication failed"
	}
	switch session.ParseErrorReason(data[session.KeyErrorKind]) {
	case session.ReasonSecurity:
		return errors.SecurityValidationFailed(description)
	case session.ReasonProvider:
		return errors.ProviderError(data[session.KeyError], description)
	default:
		return errors.MalformedRedirect(description).
			WithDetail("provider_code", data[session.KeyError])
	}
}
