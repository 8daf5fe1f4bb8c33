// Package bridge carries the terminal outcome of a sign-in from the browser
// surface back to the caller.
//
// The core primitive is a one-shot Future completed through its Promise: the
// first Resolve or Reject wins and every later call is a no-op. A Channel
// wraps a Promise of Message so the surface can deliver a result code and
// payload, and resolves as cancelled when the surface is torn down without
// delivering anything. Single adapts a Future factory into a cold stream
// where every subscription starts a fresh attempt.
package bridge
