// Package cli provides the interactive credebt command-line client.
//
// It runs a read-eval-print loop over the application services: account
// management, booklet ledgers with summaries, and debts between users. The
// prompt shows who is logged in and whether the session is being refreshed.
// When the session expires in the background the next prompt asks the user
// to log in again.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
