// Package sessions persists the signed-in state of a client.
//
// Values are grouped by namespace: one namespace per browser session in the
// web frontend, a single fixed namespace for the CLI. Each namespace holds the
// bearer token under KeyToken and the JSON user record under KeyUser. Both
// are written together by SetAll and removed together by Clear.
package sessions
