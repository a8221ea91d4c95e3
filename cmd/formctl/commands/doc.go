// Package commands defines the formctl CLI.
//
// Commands
//
//   - send          Submit a contact form entry the way the page does
//   - submissions   List stored contact submissions
//   - reservations  List confirmed reservations for a day
//
// # Implementation
//
// Every subcommand talks to a running formd server over its public HTTP API;
// the --server persistent flag (or FORMD_SERVER) selects the instance. The
// send command goes through the same multipart intake endpoint the contact
// page posts to, so it doubles as an end-to-end smoke check.
package commands
