package codec

import "github.com/awnumar/memguard"

// Wipe zeroes each buffer in place. Nil and empty buffers are ignored.
func Wipe(bufs ...[]byte) {
	for _, b := range bufs {
		if len(b) == 0 {
			continue
		}
		memguard.WipeBytes(b)
	}
}
