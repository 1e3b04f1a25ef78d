// Package session drives the client's session lifecycle on top of the auth
// service and the credential store.
//
// Orchestrator decides once per process whether the stored token is still
// good, and afterwards reports Authenticated or Anonymous from storage.
// Flows implements the sign-in, sign-up and password reset forms,
// CaptchaGate the mail captcha with its resend cooldown, and OAuthCallback
// the one-shot exchange of a Google redirect for a session.
//
// One-shot guards live in a Runtime shared by reference, so tests can reset
// them between runs.
package session
