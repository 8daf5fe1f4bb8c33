// Package redirect parses the provider's redirect back to the registered URI.
//
// Apple returns the response parameters in the URL fragment. ExtractFragment
// and ParseParams turn that into a flat key/value map. When the provider
// delivers the response as a form POST instead, the posted fields are
// rebuilt into an equivalent fragment URL with SyntheticURL so both arrival
// paths share one validation path.
package redirect
