// Package client talks to the hosted auth service.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see AuthClient) covering session
//     retrieval, session-change notifications, e-mail sign-up and sign-in,
//     identity-token exchange for federated sign-in, sign-out and Ping.
//  2. HTTPAuthClient, a GoTrue-compatible REST implementation that sends the
//     project's anon key with every request, refreshes an expired access
//     token once and optionally persists the session through a SessionStore.
//  3. MemoryAuthClient, an in-process implementation used by tests and the
//     offline demo backend.
//
// # Error Handling
//
// Non-2xx responses become *APIError carrying the provider message so it can
// be shown verbatim. Callers match broad classes with errors.Is against
// ErrUnauthorized and ErrUnavailable.
//
// Implementations are safe for concurrent use. Listeners registered with
// OnAuthStateChange are called synchronously, outside internal locks.
package client
