// Package credentials is the single owner of the client's session state:
// the bearer token, the cached user profile and the transient OAuth
// authorization code.
//
// The token is written twice. A domain cookie scoped to the parent domain
// makes it visible to sibling subdomains, and a same-origin local entry
// survives when the cookie is lost. Reads prefer the cookie and repair it
// from the local copy when needed.
//
// A session exists iff a token exists. The cached profile alone never
// counts as signed in.
package credentials
