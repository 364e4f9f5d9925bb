package id

import (
	"testing"
	"time"
)

func TestNewIsUniqueAndOrdered(t *testing.T) {
	seen := make(map[string]struct{})
	prev := ""
	for i := 0; i < 1000; i++ {
		v := New()
		if _, dup := seen[v]; dup {
			t.Fatalf("duplicate id %s", v)
		}
		seen[v] = struct{}{}
		if prev != "" && len(v) == len(prev) && v <= prev {
			t.Fatalf("ids not increasing: %s then %s", prev, v)
		}
		prev = v
	}
}

func TestTimeRoundTrip(t *testing.T) {
	before := time.Now().Add(-time.Second)
	got, ok := Time(New())
	if !ok {
		t.Fatal("expected id to parse")
	}
	if got.Before(before) || got.After(time.Now().Add(time.Second)) {
		t.Fatalf("embedded time %s out of range", got)
	}
	if _, ok := Time("not-a-number"); ok {
		t.Fatal("expected parse failure")
	}
}
