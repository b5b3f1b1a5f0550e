// Package eval evaluates QueryIR predicates against in-memory rows.
//
// Evaluation follows SQL three-valued logic so an in-memory backend returns
// the same rows as the SQLite backend for the same compiled query:
//   - a comparison involving NULL is Unknown
//   - NOT Unknown is Unknown
//   - AND is False if any operand is False, else Unknown if any is Unknown
//   - OR is True if any operand is True, else Unknown if any is Unknown
//
// LIKE is case-sensitive; the SQLite store enables case_sensitive_like to
// agree.
package eval
