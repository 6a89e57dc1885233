// Package user implements account management: CRUD over platform users
// plus CSV bulk import and export.
//
// Imports run in two phases. The validate endpoint parses and checks a
// file without persisting anything, returning a per-row error report with
// header-offset row numbers. The import endpoint repeats validation and
// then creates the valid rows through the bulk executor, so one broken
// row never blocks the rest of the file. Passwords are stored as bcrypt
// hashes and never leave the service.
//
// Exports render the tenant's users as CSV; with ?archive=true the file
// is also uploaded to the configured object-store bucket under exports/.
package user
