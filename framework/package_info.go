// Package framework contains the low-level implementation of test harness infrastructure
// that does not depend on what kind of server is being tested.
//
// The general model is:
//
// 1. There is a general notion of a test context which is similar to Go's *testing.T,
// allowing pieces of test logic to be associated with a test identifier and to accumulate
// success/failure results. Functions registered with Defer always run at the end of a test,
// which is how server subprocesses are guaranteed to be stopped.
//
// 2. Each test has a capturing debug logger whose output is only shown for tests that
// failed, unless the caller asks for all of it.
//
// 3. Results can be printed as a summary or written as a JSON report.
//
// Starting and stopping the server under test is in the harness subpackage. The
// domain-specific code that knows what is being tested provides a test API on top of the
// test context.
package framework
