// Package relay provides an in-memory implementation of domain.Transport.
//
// A Memory relay keeps rooms of members, each with its own pending queue.
// Publish fans a message out to every member except the sender; Fetch returns
// the oldest pending messages without removing them; Ack drops the first n
// after the caller has processed them. Messages are delivered unmodified.
//
// All methods accept a context and return its error if it is already done.
// The relay is safe for concurrent use.
package relay
