package embedded

import "testing"

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in                  string
		major, minor, patch int
	}{
		{"1.2.0", 1, 2, 0},
		{"v1.1.3", 1, 1, 3},
		{"v0.8.0-1014-gf41c0e9a4e", 0, 8, 0},
		{"11.5.7 (Jun2020-SP2)", 11, 5, 7},
	}
	for _, tt := range tests {
		v, err := ParseVersion(tt.in)
		if err != nil {
			t.Fatalf("ParseVersion(%q): %v", tt.in, err)
		}
		if v.Major != tt.major || v.Minor != tt.minor || v.Patch != tt.patch {
			t.Errorf("ParseVersion(%q) = %d.%d.%d", tt.in, v.Major, v.Minor, v.Patch)
		}
		if v.String() != tt.in {
			t.Errorf("String() = %q, want %q", v.String(), tt.in)
		}
	}

	if _, err := ParseVersion("dev"); err == nil {
		t.Error("expected an error for a version without numbers")
	}
}

func TestVersionAtLeast(t *testing.T) {
	v := Version{Major: 1, Minor: 2, Patch: 3}
	checks := []struct {
		major, minor, patch int
		want                bool
	}{
		{1, 2, 3, true},
		{1, 2, 4, false},
		{1, 1, 9, true},
		{0, 9, 0, true},
		{2, 0, 0, false},
	}
	for _, c := range checks {
		if got := v.AtLeast(c.major, c.minor, c.patch); got != c.want {
			t.Errorf("AtLeast(%d, %d, %d) = %v", c.major, c.minor, c.patch, got)
		}
	}
	if LibraryVersion.String() != "0.4.0" {
		t.Errorf("LibraryVersion = %s", LibraryVersion)
	}
}
