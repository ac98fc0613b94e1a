// Package session manages a pool of Instagram session cookies.
//
// Selection prefers the session with the fewest recorded failures, breaking
// ties by least recent use. Five consecutive failures deactivate a session;
// any success reactivates it and decays its failure count. The pool persists
// to a JSON file via atomic writes, with optional AES-GCM encryption at rest.
package session
