// Package cli provides the interactive vaultx command-line client.
//
// It wires configuration, the local and cloud stores, the document services
// and an interactive REPL. In local mode a background auto-sync pushes
// documents to the cloud whenever the backend is reachable.
//
// Key features:
//   - Login / Logout with a bearer token from the identity provider
//   - Add, list, open and delete documents
//   - Signed URLs for documents held in the cloud
//   - Manual sync and connectivity status
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See NewApp for the wiring and runREPL for the command loop.
package cli
