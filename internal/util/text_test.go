package util

import "testing"

func TestSanitizePostgresText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain utf8", input: "hello world", want: "hello world"},
		{name: "contains null byte", input: "hel\x00lo", want: "hello"},
		{name: "contains invalid utf8", input: string([]byte{'a', 0xff, 'b'}), want: "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizePostgresText(tt.input); got != tt.want {
				t.Fatalf("unexpected sanitized value: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeSearchTerm(t *testing.T) {
	tests := map[string]string{
		"  Elena   Brightforge ": "Elena Brightforge",
		"Iron\tGuild\n":          "Iron Guild",
		"\x00":                   "",
		"":                       "",
	}
	for in, want := range tests {
		if got := NormalizeSearchTerm(in); got != want {
			t.Fatalf("NormalizeSearchTerm(%q) = %q, want %q", in, got, want)
		}
	}
}
