package post

import "testing"

func TestSlugify(t *testing.T) {
	for _, tc := range []struct{ in, want string }{
		{"This Is A Title", "this-is-a-title"},
		{"Contains: 3? illegal characters!", "contains-3-illegal-characters"},
		{"What is 1% of 20% of a question mark?", "what-is-1-of-20-of-a-question-mark"},
		{`"quoted phrase" string's got an apostrophe`, "quoted-phrase-strings-got-an-apostrophe"},
		{"This would be pretty braindead--", "this-would-be-pretty-braindead"},
		{"Düsseldorf is a city in Germany", "d%C3%BCsseldorf-is-a-city-in-germany"},
		{"Let Over λ", "let-over-%CE%BB"},
		{`Wow, 2015 has "Come and Gone" already! It's amazing.`, "wow-2015-has-come-and-gone-already-its-amazing"},
	} {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
