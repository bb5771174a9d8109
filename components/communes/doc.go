// Package communes serves the region, department and commune lists of the
// backend region tree as JSON options for form inputs.
//
// The handler responds to GET and HEAD requests. Without parameters it lists
// regions; the region and department parameters narrow the list one level at
// a time; the search parameter matches commune names across the whole tree.
// Responses use the backend envelope: {"data": [...]} on success and
// {"error": true, "message": "..."} on failure.
package communes
