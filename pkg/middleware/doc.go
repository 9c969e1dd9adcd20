// Package middleware provides the gin middleware shared by the board API.
//
// It covers bearer token authentication, request ids, structured request
// logging, Prometheus request metrics, panic recovery and CORS.
package middleware
