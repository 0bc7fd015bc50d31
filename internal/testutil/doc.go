// Package testutil provides deterministic helpers shared by the navsplit
// test suites: fixed identifier generators, a scripted model provider and a
// recorder for store subscriptions.
package testutil
