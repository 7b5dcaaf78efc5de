package id

import "crypto/rand"

// New creates a prefixed 16-character alphanumeric ID, e.g. New("qs") ->
// "qs_x7k2...". Prefixes keep archive IDs distinguishable in logs.
func New(prefix string) string {
	const chars = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand failed: " + err.Error())
	}
	for i := range b {
		b[i] = chars[b[i]%byte(len(chars))]
	}
	if prefix == "" {
		return string(b)
	}
	return prefix + "_" + string(b)
}
