// Package payments provides payment fixtures and a small builder for tests.
//
// # Fixtures
//
// Sample returns the reference ledger used across the test suite: ten
// payments from 19-21 March 2024 with a mix of statuses and methods.
//
//	records := payments.Sample()
//	matched := filter.Apply(records, state)
//
// # Builder
//
// Build individual records when a test needs a specific shape:
//
//	p := payments.New(t, "42").
//		WithAmount("125.50").
//		WithStatus("Pending").
//		Build()
package payments
