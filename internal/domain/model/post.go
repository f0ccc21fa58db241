package model

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Post is a markdown blog post addressed by its slug.
type Post struct {
	Slug    string
	Title   string
	Excerpt string
	Content string
	Tags    []string
	Date    time.Time
}

// ValidSlug reports whether s consists of lowercase letters and digits
// separated by single hyphens.
func ValidSlug(s string) bool {
	if s == "" || s[0] == '-' || s[len(s)-1] == '-' || strings.Contains(s, "--") {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return false
		}
	}
	return true
}

// letterFolds spells out Latin letters that have no canonical decomposition.
var letterFolds = map[rune]string{
	'ß': "ss", 'æ': "ae", 'œ': "oe", 'ø': "o", 'đ': "d", 'ð': "d", 'ł': "l", 'þ': "th", 'ı': "i",
}

// Slugify derives a slug from a title, e.g. "Hello, World!" -> "hello-world".
// Accented Latin letters lose their marks ("Café" -> "cafe"). Letters with no
// ASCII spelling are dropped, so the result may be empty.
func Slugify(title string) string {
	var b strings.Builder
	pendingDash := false
	emit := func(s string) {
		if pendingDash && b.Len() > 0 {
			b.WriteByte('-')
		}
		pendingDash = false
		b.WriteString(s)
	}
	for _, r := range norm.NFD.String(strings.ToLower(title)) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			emit(string(r))
		case unicode.Is(unicode.Mn, r):
		case letterFolds[r] != "":
			emit(letterFolds[r])
		case unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r):
			pendingDash = true
		}
	}
	return b.String()
}
