// Package message sends and receives signed chat messages over a
// domain.Transport.
//
// Send signs the plaintext with the sender's certified key. With a shared
// secret the plaintext is also sealed under a one-time forward-secrecy key and
// the envelope's index travels with it.
//
// Receive fetches pending messages, opens them, then checks each one in two
// steps: the certificate against the session CA, then the signature against
// the certificate's key. Messages are checked concurrently; every fetched
// message is acknowledged, accepted or not, so a forged message cannot block
// the queue.
package message
