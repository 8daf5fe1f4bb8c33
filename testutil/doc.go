// Package testutil provides test doubles for driving sign-in attempts
// without a real browser.
//
// A Launcher attaches a fresh Surface to every host it launches and can
// answer with a redirect, the way the provider would:
//
//	launcher := testutil.NewLauncher(testutil.SuccessRedirect(redirectURI, "code", "token"))
//	f, _ := client.SignInAsync(ctx, launcher)
//	cred, err := testutil.Await(t, f)
package testutil
