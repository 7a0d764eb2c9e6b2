// Package testutil holds behaviour suites shared by every store backend.
// Each backend's tests call the suites with a constructor for a fresh,
// empty store.
package testutil
