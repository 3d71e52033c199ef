package hashtests

import (
	"os"
	"testing"

	"github.com/linehash/hash-contract-tests/internal/fakeserver"
)

func TestMain(m *testing.M) {
	fakeserver.RunIfRequested()
	os.Exit(m.Run())
}
