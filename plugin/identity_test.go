package plugin

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		`a!b/c\d.js`:            "b/c/d.js",
		"x/y.js":                "x/y.js",
		"!!loader!dir/file.txt": "dir/file.txt",
		`C:\src\app.ts`:         "C:/src/app.ts",
		"loader!":               "",
		"":                      "",
	}
	for in, want := range cases {
		if got := CanonicalPath(in); got != want {
			t.Fatalf("CanonicalPath(%q) = %q, want %q", in, got, want)
		}
	}
}
