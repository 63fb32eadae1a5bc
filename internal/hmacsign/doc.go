// Package hmacsign signs files with HMAC-SHA256 under a session key shared
// out-of-band.
//
// The MAC covers a canonical JSON payload of
// {filename, size, type, timestamp, content}, so renaming a file, changing its
// declared type or substituting the timestamp breaks verification even when
// the bytes are identical. The key is never written into a signature file.
package hmacsign
