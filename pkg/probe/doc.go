// Package probe executes catalog test vectors against a socket driver.
//
// The interpreter applies each vector in a strict phase order: ground and
// supply pins first, driven inputs next, expected outputs armed last, then
// an optional clock pulse, a settle wait, and a single sample pass. The
// ordering is load-bearing: driving expectation pins before the ground and
// rail references are established can damage or confuse the part.
//
// A Session owns the located-chip cursor and guarantees that every channel,
// the ground overrides included, is returned to floating input on every exit
// path of a test, pass or fail or error.
package probe
