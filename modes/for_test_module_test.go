package modes

import (
	"testing"

	"github.com/reusee/dscope"
)

func TestForTest(t *testing.T) {
	dscope.New(ForTest(t)).Call(func(
		got *testing.T,
		mode Mode,
	) {
		if got != t {
			t.Fatal("should provide the running test")
		}
		if mode != ModeDevelopment || mode.String() != "development" {
			t.Fatalf("got %v", mode)
		}
	})
}
