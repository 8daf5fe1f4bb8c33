// Package logger provides structured logging for the sign-in library
// using zerolog.
//
// Every component takes a *Logger and tags it with its own name, so a
// single attempt can be followed across session, browser host and bridge
// through the attempt_id field.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.NewDefault("applesignin").WithComponent("session")
//	log.Info("redirect handled", logger.Fields(logger.FieldAttemptID, id))
//
// Identity tokens and authorization codes are never passed as field
// values; callers log parameter keys only.
package logger
