// Package testing switches the process into test mode when imported, so
// binaries under test return before opening connections.
package testing

import (
	"os"
	"sync"
	stdtesting "testing"
)

// TestModeEnv mirrors the variable read by the application runtime.
const TestModeEnv = "ADLENS_TEST_MODE"

var once sync.Once

func ensureTestMode() {
	once.Do(func() {
		_ = os.Setenv(TestModeEnv, "1")
		if os.Getenv("CSRF_SECRET") == "" {
			_ = os.Setenv("CSRF_SECRET", "test-secret")
		}
	})
}

func init() {
	ensureTestMode()
}

func TestMain(m *stdtesting.M) {
	ensureTestMode()
	os.Exit(m.Run())
}
