package ids

import "testing"

func TestFormat(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{1, "001"},
		{42, "042"},
		{999, "999"},
		{1000, "1000"},
	}
	for _, tc := range tests {
		if got := Format(tc.n); got != tc.want {
			t.Errorf("Format(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}

func TestNext(t *testing.T) {
	tests := []struct {
		last string
		want string
	}{
		{"", "001"},
		{"001", "002"},
		{"009", "010"},
		{"099", "100"},
		{"999", "1000"},
	}
	for _, tc := range tests {
		got, err := Next(tc.last)
		if err != nil {
			t.Fatalf("Next(%q): %v", tc.last, err)
		}
		if got != tc.want {
			t.Errorf("Next(%q) = %q, want %q", tc.last, got, tc.want)
		}
	}
}

func TestNextRejectsMalformedIds(t *testing.T) {
	for _, last := range []string{"abc", "12x", "0x1"} {
		if _, err := Next(last); err == nil {
			t.Errorf("Next(%q): expected error", last)
		}
	}
}
