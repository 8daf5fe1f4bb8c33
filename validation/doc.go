// Package validation checks configuration and entry-point arguments.
//
// It supports both struct tag validation (using the validator library)
// and programmatic validation with error collection. Both report failures
// as an INVALID_ARGUMENT *errors.AppError listing every offending field.
//
// # Struct Tag Validation
//
//	type AppleConfig struct {
//	    ClientID    string `validate:"required"`
//	    RedirectURI string `validate:"required,url"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	err := validation.New().
//	    Required("client_id", clientID, "Service ID cannot be empty").
//	    Validate()
package validation
