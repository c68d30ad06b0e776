// Package api implements the authenticated client for the Sýna platform API.
//
// The core is Client, which owns the token lifecycle: tokens are attached as a
// Bearer header, a 401 response triggers a single-flight refresh, and the
// failing request is retried at most once. When authentication cannot be
// recovered, tokens are cleared and a logout notification is broadcast to
// subscribers so the rest of the application can react without polling.
//
// Typed resource clients (Auth, Projects, MyProjects, Competitions, Reviews,
// Tags, Users) translate domain operations into Client requests. They hold no
// state of their own.
package api
