// Package cli implements the interactive yard client.
//
// Each screen of the membership app is a REPL command. Commands resolve the
// signed-in user through the session provider, run one service call and
// print the result. Any failure is shown as a single "Error: ..." line and
// the prompt comes back; nothing is retried.
//
// The terms gate runs after every sign-in and on start-up with a restored
// session. Until it is cleared only help, terms, logout, pricing, manage,
// qr and exit are available.
package cli
