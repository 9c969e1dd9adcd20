// Package board implements the blog board service.
//
// It contains the access gateway that applies ownership checks to post
// mutations, the gin handlers that expose the gateway over HTTP, and a
// SQLite-backed Service used as the gateway's persistence collaborator.
// Reads are public; writes, updates and deletes require an authenticated
// principal whose identifier matches the post's writer.
package board
