package codec

import (
	"errors"
	"testing"
)

func testCodec(t *testing.T) *Codec {
	t.Helper()
	actions := BuildDictionary([]string{"pickup a", "pickup b", "stack a b", "putdown a"})
	goals := BuildDictionary([]string{"on a b", "ontable a", "clear b", "handempty"})
	return New(actions, goals)
}

func TestBuildDictionary_SortedStableIDs(t *testing.T) {
	// Same tokens in any order produce the same mapping.
	first := BuildDictionary([]string{"b", "a", "c"})
	second := BuildDictionary([]string{"c", "b", "a", "a"})

	if first.Size() != 3 || second.Size() != 3 {
		t.Fatalf("sizes = %d/%d, want 3/3", first.Size(), second.Size())
	}
	for _, token := range []string{"A", "B", "C"} {
		id1, ok1 := first.ID(token)
		id2, ok2 := second.ID(token)
		if !ok1 || !ok2 || id1 != id2 {
			t.Errorf("token %q: ids %d/%d (present %v/%v)", token, id1, id2, ok1, ok2)
		}
	}
	if id, _ := first.ID("A"); id != 0 {
		t.Errorf("A = %d, want 0 (sorted order)", id)
	}
}

func TestDictionary_TokensInIDOrder(t *testing.T) {
	d := BuildDictionary([]string{"c", "a", "b"})
	tokens := d.Tokens()

	want := []string{"A", "B", "C"}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Errorf("tokens[%d] = %q, want %q", i, tokens[i], want[i])
		}
	}
}

func TestCodec_ActionRoundTrip(t *testing.T) {
	c := testCodec(t)
	original := []string{"PICKUP A", "STACK A B", "PUTDOWN A"}

	ids, err := c.EncodeActions(original)
	if err != nil {
		t.Fatalf("EncodeActions failed: %v", err)
	}
	decoded, err := c.DecodeActions(ids)
	if err != nil {
		t.Fatalf("DecodeActions failed: %v", err)
	}

	if len(decoded) != len(original) {
		t.Fatalf("got %d tokens, want %d", len(decoded), len(original))
	}
	for i := range original {
		if decoded[i] != original[i] {
			t.Errorf("round-trip[%d] = %q, want %q", i, decoded[i], original[i])
		}
	}
}

func TestCodec_GoalRoundTrip(t *testing.T) {
	c := testCodec(t)
	original := []string{"ON A B", "HANDEMPTY"}

	ids, err := c.EncodeGoal(original)
	if err != nil {
		t.Fatalf("EncodeGoal failed: %v", err)
	}
	decoded, err := c.DecodeGoal(ids)
	if err != nil {
		t.Fatalf("DecodeGoal failed: %v", err)
	}
	for i := range original {
		if decoded[i] != original[i] {
			t.Errorf("round-trip[%d] = %q, want %q", i, decoded[i], original[i])
		}
	}
}

func TestCodec_EncodeNormalizesTokens(t *testing.T) {
	c := testCodec(t)

	lower, err := c.EncodeActions([]string{"(pickup a)"})
	if err != nil {
		t.Fatalf("EncodeActions failed: %v", err)
	}
	upper, err := c.EncodeActions([]string{"PICKUP  A"})
	if err != nil {
		t.Fatalf("EncodeActions failed: %v", err)
	}
	if lower[0] != upper[0] {
		t.Errorf("normalization mismatch: %d vs %d", lower[0], upper[0])
	}
}

func TestCodec_UnknownTokenSurfaces(t *testing.T) {
	c := testCodec(t)

	if _, err := c.EncodeActions([]string{"TELEPORT A"}); !errors.Is(err, ErrUnknownToken) {
		t.Errorf("EncodeActions err = %v, want ErrUnknownToken", err)
	}
	if _, err := c.EncodeGoal([]string{"ON Z Z"}); !errors.Is(err, ErrUnknownToken) {
		t.Errorf("EncodeGoal err = %v, want ErrUnknownToken", err)
	}
	if _, err := c.DecodeGoal([]int{999}); !errors.Is(err, ErrUnknownToken) {
		t.Errorf("DecodeGoal err = %v, want ErrUnknownToken", err)
	}
}

func TestCodec_EncodeStateProjectsOntoGoalVocabulary(t *testing.T) {
	c := testCodec(t)

	// "ARM FREE" is not goal-relevant and must be dropped, not fail.
	ids := c.EncodeState([]string{"ON A B", "ARM FREE", "CLEAR B"})
	if len(ids) != 2 {
		t.Fatalf("got %d ids, want 2", len(ids))
	}
}

func TestOneHot(t *testing.T) {
	vec := OneHot([]int{0, 2}, 4)
	want := []int{1, 0, 1, 0}
	for i := range want {
		if vec[i] != want[i] {
			t.Errorf("vec[%d] = %d, want %d", i, vec[i], want[i])
		}
	}

	// Out-of-range ids are ignored rather than panicking.
	vec = OneHot([]int{7, -1}, 3)
	for i, v := range vec {
		if v != 0 {
			t.Errorf("vec[%d] = %d, want 0", i, v)
		}
	}
}

func TestNormalizeToken(t *testing.T) {
	cases := []struct{ in, want string }{
		{"(pickup a)", "PICKUP A"},
		{"  stack   a  b ", "STACK A B"},
		{"HANDEMPTY", "HANDEMPTY"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeToken(tc.in); got != tc.want {
			t.Errorf("NormalizeToken(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
