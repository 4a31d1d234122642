// Package fakebackend is an in-memory stand-in for the university REST
// backend, used by tests of the session manager, the web frontend and the CLI.
//
// It speaks the same envelope format and mixes key casings the way the real
// service does: list endpoints answer either with a "pagination" block or with
// flat TotalPages/TotalElements keys, and records come back under capitalized
// keys ("User", "Student", "Class"). Tokens are HS256 JWTs; passwords are
// bcrypt hashes.
package fakebackend
