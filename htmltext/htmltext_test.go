package htmltext

import "testing"

func TestCleanTagPairs(t *testing.T) {
	got := Clean("<p>Hello <strong>world</strong></p>")
	if want := "Hello **world**"; got != want {
		t.Fatalf("Clean() = %q, want %q", got, want)
	}
}

func TestCleanEmpty(t *testing.T) {
	if got := Clean(""); got != "" {
		t.Fatalf("Clean(\"\") = %q, want empty", got)
	}
}

func TestCleanTable(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"entities", "a &amp; b &lt; c", "a & b < c"},
		{"code", "run <code>go vet</code> first", "run `go vet` first"},
		{"emphasis", "<em>very</em> <strong>bold</strong>", "*very* **bold**"},
		{"paragraphs", "<p>one</p><p>two</p>", "one\n\ntwo"},
		{"trim", "  <p>padded</p>  ", "padded"},
		{"unhandled tags pass through", "<ul><li>x</li></ul>", "<ul><li>x</li></ul>"},
		{"attributes pass through", `<p class="x">y</p>`, `<p class="x">y`},
		{"entities decode before tags", "&lt;p&gt;literal&lt;/p&gt;", "literal"},
		{"anchor passes through", `<a href="#">link</a>`, `<a href="#">link</a>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.in); got != tt.want {
				t.Fatalf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanLeavesLiteralMarkdownAlone(t *testing.T) {
	// Re-cleaning output containing literal ** is a no-op only because no
	// matching tags remain.
	once := Clean("<strong>bold</strong>")
	if got := Clean(once); got != once {
		t.Fatalf("Clean(Clean(x)) = %q, want %q", got, once)
	}
}
