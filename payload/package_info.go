// Package payload produces the lines that the contract tests send to the server under test,
// and computes the reply that a conforming server must send back for each of them.
//
// Lines are generated from a seed so that any failure can be reproduced exactly by running
// the same seed again. How a line is split into chunks is part of what is generated, so the
// same seed also reproduces the exact sequence of writes on the wire.
package payload
