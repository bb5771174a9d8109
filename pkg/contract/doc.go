// Package contract checks outgoing request bodies against the OpenAPI
// description of the declaration backend.
//
// The document is embedded and parsed with kin-openapi. Request bodies are
// visited against the operation's JSON schema and every violation is reported
// as an Issue whose Field matches the wizard form field that produced the
// value, so callers can surface contract failures next to the input.
package contract
