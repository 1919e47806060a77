// Package audit keeps an optional journal of command invocations.
//
// Every command records its run id, name, target bucket and key, and whether it
// succeeded. The journal lives in the MySQL database configured under
// database.*; when it is disabled or unreachable the Nop recorder is used and
// commands behave exactly the same. The history command reads it back.
package audit
