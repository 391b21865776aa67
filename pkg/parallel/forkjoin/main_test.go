package forkjoin

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain enables goroutine leak detection for all tests in this package.
// Every pool must be closed; a leaked worker shows up here.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
