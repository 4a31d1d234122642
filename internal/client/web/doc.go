// Package web serves the browser-facing client: server-rendered HTML pages
// backed by the university REST API.
//
// Each browser gets a random session id in a cookie. The id selects a
// session.Manager from the Registry; the Manager holds the signed-in user and
// token server-side. Every page is wrapped by the route guard, which sends
// visitors without a session to /login and visitors without a permitted role
// to /unauthorized. A backend 401 expires the session and the handler
// answers with a single redirect to /login.
package web
