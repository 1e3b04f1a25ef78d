// Package storage persists the client's browser-like state in SQLite.
//
// One database file holds two stores:
//
//   - cookies: a cookie jar shared by every client that opens the same file.
//     Domain cookies are visible to all hosts under their domain, host-only
//     cookies only to the exact host that set them.
//   - local_storage: a key/value store partitioned by origin host, with
//     optional per-entry expiry.
//
// Several client processes configured with sibling hostnames and the same
// database path therefore behave like sibling subdomains of one browser
// profile. The schema is managed by embedded goose migrations.
package storage
