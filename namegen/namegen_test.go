package namegen

import "testing"

func TestUniqueFirstRequestIsBase(t *testing.T) {
	g := New()
	if got := g.Unique("foo"); got != "foo" {
		t.Errorf("expected %q, got %q", "foo", got)
	}
}

func TestUniqueCounterSkipQuirk(t *testing.T) {
	g := New()

	first := g.Unique("foo")
	second := g.Unique("foo")
	third := g.Unique("foo")

	if first != "foo" {
		t.Errorf("first: expected foo, got %q", first)
	}
	if second != "foo_1" {
		t.Errorf("second: expected foo_1, got %q", second)
	}
	// The base counter is 2 after the second request, so the third
	// request goes straight to foo_2 without probing foo_1 again.
	if third != "foo_2" {
		t.Errorf("third: expected foo_2, got %q", third)
	}
}

func TestUniqueNeverRepeats(t *testing.T) {
	g := New()
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		n := g.Unique("bar")
		if seen[n] {
			t.Fatalf("Unique produced duplicate name %q", n)
		}
		seen[n] = true
	}
}

func TestReserveAvoidsCollision(t *testing.T) {
	g := New()
	g.Reserve("foo_1")
	if got := g.Unique("foo"); got != "foo" {
		t.Errorf("expected foo, got %q", got)
	}
	// counters[foo] is now 1, so the natural next candidate foo_1 is
	// reserved and must be skipped.
	if got := g.Unique("foo"); got != "foo_2" {
		t.Errorf("expected foo_2 skipping reserved foo_1, got %q", got)
	}
}
