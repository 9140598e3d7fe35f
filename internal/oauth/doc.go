// Package oauth implements the OAuth2 client-credentials subsystem:
// the scope catalog and scope gate, the persisted client and token
// stores, RS256 token issuance and verification, and the token endpoint.
//
// Stores persist serialize-all/write-all to JSON files. Concurrent
// mutators race last-writer-wins; given admin-frequency writes this is an
// accepted consistency gap rather than a bug to fix.
//
// Token lifecycle: Issue mints a token restricted to the intersection of
// requested and client-granted scopes but does not persist it; the token
// store's Persist step does, rejecting duplicate identifiers. Already
// minted tokens keep their original grant even if the client's scopes
// later shrink, until they expire or are revoked. Expired tokens are
// purged when the store loads.
package oauth
