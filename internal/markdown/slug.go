package markdown

import (
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/yuin/goldmark/ast"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugControl = regexp.MustCompile(`[\x00-\x1f]`)
	slugSpecial = regexp.MustCompile(`[\s~` + "`" + `!@#$%^&*()\-_+=\[\]{}|\\;:"'“”‘’<>,.?/]+`)
	slugDashes  = regexp.MustCompile(`-{2,}`)
	slugDigit   = regexp.MustCompile(`^(\d)`)
)

// combining diacritical marks block
var stripMarks = runes.Remove(runes.Predicate(func(r rune) bool { return r >= 0x300 && r <= 0x36f }))

// Slugify turns heading text into an anchor id: "Simple HTTP test plan" -> "simple-http-test-plan".
// Accents are folded ("Café" -> "cafe") and a leading digit is prefixed with "_".
func Slugify(s string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFKD, stripMarks), s)
	if err != nil {
		folded = s
	}
	folded = slugControl.ReplaceAllString(folded, "")
	folded = slugSpecial.ReplaceAllString(folded, "-")
	folded = slugDashes.ReplaceAllString(folded, "-")
	folded = strings.Trim(folded, "-")
	folded = slugDigit.ReplaceAllString(folded, "_$1")
	return strings.ToLower(folded)
}

// slugIDs implements parser.IDs with Slugify and per-document de-duplication
// ("setup", "setup-1", "setup-2").
type slugIDs struct {
	mu   sync.Mutex
	used map[string]bool
}

func newSlugIDs() *slugIDs {
	return &slugIDs{used: map[string]bool{}}
}

func (s *slugIDs) Generate(value []byte, _ ast.NodeKind) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	base := Slugify(string(value))
	if base == "" {
		base = "heading"
	}
	slug := base
	for i := 1; s.used[slug]; i++ {
		slug = base + "-" + strconv.Itoa(i)
	}
	s.used[slug] = true
	return []byte(slug)
}

func (s *slugIDs) Put(value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.used[string(value)] = true
}
