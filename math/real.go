// Package math provides the fixed-layout numeric primitives shared by every
// importer and exporter: vectors, a quaternion, a row-major 4x4 matrix, and
// colors. Every type here has a deterministic in-memory layout suitable for
// direct little-endian wire serialization regardless of host byte order.
package math

// Real is the project-wide scalar alias. Every geometric type in this
// package is built on it so a future switch to double precision only
// touches this file.
type Real = float32
