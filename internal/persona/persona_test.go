package persona

import (
	"strings"
	"testing"
)

func TestCompose(t *testing.T) {
	ctx := Compose("Can AI truly think like a human?")

	t.Run("structured form", func(t *testing.T) {
		if ctx.System != Directive {
			t.Error("expected system message to be the full directive")
		}
		if ctx.User != "Can AI truly think like a human?" {
			t.Errorf("unexpected user message: %q", ctx.User)
		}
	})

	t.Run("flat form", func(t *testing.T) {
		if !strings.HasSuffix(ctx.Flat, Marker) {
			t.Errorf("flat prompt must end with marker %q, got %q", Marker, ctx.Flat)
		}
		if !strings.Contains(ctx.Flat, "User: Can AI truly think like a human?") {
			t.Errorf("flat prompt missing user line: %q", ctx.Flat)
		}
		if !strings.HasPrefix(ctx.Flat, ShortDirective) {
			t.Error("flat prompt must start with the short directive")
		}
	})

	t.Run("pure", func(t *testing.T) {
		again := Compose("Can AI truly think like a human?")
		if again != ctx {
			t.Error("Compose must be deterministic for the same question")
		}
	})
}
