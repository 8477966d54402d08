package normalization

import "testing"

func TestParseInputString(t *testing.T) {
	if got := ParseInputString("  FooBar  "); got != "foobar" {
		t.Fatalf("ParseInputString: got %q", got)
	}
	if got := ParseInputString(""); got != "" {
		t.Fatalf("ParseInputString empty: got %q", got)
	}
}

func TestNormalizeTag(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"Back-End!", "backend"},
		{"  Machine Learning  ", "machine learning"},
		{"C++", "c"},
		{"Go", "go"},
		{"!!!", ""},
		{"   ", ""},
		{"dev-ops 2024", "devops 2024"},
	}
	for _, tc := range cases {
		if got := NormalizeTag(tc.raw); got != tc.want {
			t.Fatalf("NormalizeTag(%q): got %q want %q", tc.raw, got, tc.want)
		}
	}
}

func TestNormalizeTagIdempotent(t *testing.T) {
	inputs := []string{"Back-End!", "DATA science", "  c# / .net  ", "plain"}
	for _, raw := range inputs {
		once := NormalizeTag(raw)
		if twice := NormalizeTag(once); twice != once {
			t.Fatalf("NormalizeTag not idempotent for %q: %q != %q", raw, twice, once)
		}
	}
}
