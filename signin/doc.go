// Package signin is the entry point of the library.
//
// A Client is created once with the Services ID and the registered redirect
// URI, then every call starts an independent attempt with its own nonce,
// state, session and result channel:
//
//	client, err := signin.New("com.example.service", "https://example.com/cb")
//	if err != nil {
//	    return err
//	}
//	cred, err := client.Flow(launcher).First(ctx)
//
// A Launcher creates the browser surface for an attempt and attaches it to
// the attempt's browser.Host. Results are delivered as values: a callback,
// a Future, or a Single whose every subscription is a new sign-in.
package signin
