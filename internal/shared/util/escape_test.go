package util

import "testing"

func TestEscapeHTML(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`<script>alert("x")</script>`, "&lt;script&gt;alert(&quot;x&quot;)&lt;/script&gt;"},
		{"Tom & Jerry", "Tom &amp; Jerry"},
		{"O'Brien", "O&#039;Brien"},
		{"plain", "plain"},
	}
	for _, tc := range cases {
		if got := EscapeHTML(tc.in); got != tc.want {
			t.Errorf("EscapeHTML(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEscapeAttrStripsBackticks(t *testing.T) {
	got := EscapeAttr("https://x/`payload`?a=<b>")
	want := "https://x/payload?a=&lt;b&gt;"
	if got != want {
		t.Errorf("EscapeAttr = %q, want %q", got, want)
	}
}

func TestSanitizeObjectKey(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1700000000_Jane_Doe", "1700000000_Jane_Doe"},
		{"Élo die/..", "_lo_die___"},
		{"a-b_c", "a-b_c"},
	}
	for _, tc := range cases {
		if got := SanitizeObjectKey(tc.in); got != tc.want {
			t.Errorf("SanitizeObjectKey(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
