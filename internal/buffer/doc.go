// Package buffer owns the fixed-length byte region that every wire message is
// assembled into and parsed out of.
//
// Ownership boundary:
// - bounds-checked raw range reads and writes
// - 8/16/32-bit unsigned integer codecs with explicit byte order
// - copy-out serialization for transports and comparisons
//
// A Buffer has no internal locking. One buffer belongs to one in-flight
// message.
package buffer
