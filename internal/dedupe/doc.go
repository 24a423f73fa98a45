// Package dedupe tracks dispatched consultation request ids per caller, so
// a client retry carrying the same id inside the window is rejected instead
// of consulted twice.
package dedupe
