package post

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

var (
	quotes         = strings.NewReplacer(`"`, "", `'`, "")
	multipleDashes = regexp.MustCompile(`-+`)
)

// Slugify builds a hyphenated slug from a title. Quotes are dropped, any
// rune that is not a letter, number or underscore becomes a hyphen, and
// non-ASCII letters are percent-encoded.
//
//	Slugify(`Wow, 2015 has "Come and Gone" already! It's amazing.`)
//		== "wow-2015-has-come-and-gone-already-its-amazing"
//	Slugify("λ is a lambda") == "%CE%BB-is-a-lambda"
func Slugify(text string) string {
	s := strings.ToLower(quotes.Replace(text))
	s = strings.Map(func(r rune) rune {
		if r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r) {
			return r
		}
		return '-'
	}, s)
	s = multipleDashes.ReplaceAllString(s, "-")
	s = url.PathEscape(s)
	return strings.Trim(s, "-")
}
