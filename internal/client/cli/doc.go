// Package cli implements the interactive terminal client: a REPL whose
// commands drive the credential session, the point ledger, both history
// backends and the generation pipeline.
//
// Commands requiring a credential re-evaluate it right before running, so
// an expired token surfaces as an authentication error instead of a
// failed remote call.
package cli
