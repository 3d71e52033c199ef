// Package hashtests contains the line-hashing contract tests themselves and their supporting API.
//
// Test harness infrastructure that is not specific to this protocol, such as test contexts,
// results, and starting and stopping the server subprocess, is in the lower-level framework
// package.
package hashtests
