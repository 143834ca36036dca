// Package quota tracks per-credential daily Gemini usage in SQLite and
// drives key rotation. The ledger fails open: when it cannot be read the
// optimizer keeps working rather than stalling on bookkeeping.
package quota
