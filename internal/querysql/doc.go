// Package querysql renders QueryIR selects as parameterized SQLite SQL,
// built with squirrel.
//
// Rendering is deterministic: the same query and arguments always produce
// byte-identical SQL with parameters in placeholder order.
package querysql
