package config

import "testing"

func TestCleanFileName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"button.rs", "button.rs"},
		{"a/b:c.rs", "abc.rs"},
		{"", "_bad_file_name_"},
	}
	for _, c := range cases {
		if got := CleanFileName(c.in); got != c.want {
			t.Errorf("CleanFileName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
