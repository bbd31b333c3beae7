package tap

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/fjglira/tapparser/internal/domain"
)

// TabWidth is the number of leading whitespace characters per nesting level.
const TabWidth = 4

// Kind identifies the class of a TAP line.
type Kind int

const (
	KindOther Kind = iota
	KindVersion
	KindComment
	KindPlan
	KindBailOut
	KindPragma
	KindTestPoint
)

func (k Kind) String() string {
	switch k {
	case KindVersion:
		return "version"
	case KindComment:
		return "comment"
	case KindPlan:
		return "plan"
	case KindBailOut:
		return "bail-out"
	case KindPragma:
		return "pragma"
	case KindTestPoint:
		return "test-point"
	default:
		return "other"
	}
}

// Line is a classified TAP line. Only the fields belonging to Kind are set.
type Line struct {
	Kind Kind

	Version int // KindVersion
	Plan    int // KindPlan

	Reason *string // KindBailOut

	PragmaName    string // KindPragma
	PragmaEnabled bool   // KindPragma

	Test TestPoint // KindTestPoint
}

// TestPoint holds the fields of an "ok" / "not ok" line.
type TestPoint struct {
	Indent      string
	OK          bool
	Number      int // 0 when the line carries no explicit number
	Description *string
	Annotation  string // raw text from the first unescaped '#', if any
}

var (
	versionRe   = regexp.MustCompile(`^TAP version (\d+)`)
	commentRe   = regexp.MustCompile(`^\s*#`)
	planRe      = regexp.MustCompile(`^\s*1\.\.(\d+)`)
	bailOutRe   = regexp.MustCompile(`^\s*Bail out!(.*)$`)
	pragmaRe    = regexp.MustCompile(`^\s*pragma ([+-])([A-Za-z0-9_-]+)\s*$`)
	testPointRe = regexp.MustCompile(`^(\s*)(not ok|ok)\b(.*)$`)
	testNumRe   = regexp.MustCompile(`^\s*(\d+)`)
	directiveRe = regexp.MustCompile(`^#\s*(SKIP|TODO)(\s.*)?$`)
)

// Classify maps a line to its kind. The line terminator is ignored.
// Precedence: version, comment, plan, bail-out, pragma, test point.
func Classify(line string) Line {
	line = strings.TrimRight(line, "\r\n")

	if m := versionRe.FindStringSubmatch(line); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			return Line{Kind: KindVersion, Version: v}
		}
	}
	if commentRe.MatchString(line) {
		return Line{Kind: KindComment}
	}
	if m := planRe.FindStringSubmatch(line); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return Line{Kind: KindPlan, Plan: n}
		}
	}
	if m := bailOutRe.FindStringSubmatch(line); m != nil {
		return Line{Kind: KindBailOut, Reason: optionalText(m[1])}
	}
	if m := pragmaRe.FindStringSubmatch(line); m != nil {
		return Line{Kind: KindPragma, PragmaName: m[2], PragmaEnabled: m[1] == "+"}
	}
	if m := testPointRe.FindStringSubmatch(line); m != nil {
		return Line{Kind: KindTestPoint, Test: parseTestPoint(m[1], m[2], m[3])}
	}
	return Line{Kind: KindOther}
}

func parseTestPoint(indent, result, rest string) TestPoint {
	tp := TestPoint{Indent: indent, OK: result == "ok"}

	body := rest
	if i := annotationStart(rest); i >= 0 {
		body, tp.Annotation = rest[:i], strings.TrimSpace(rest[i:])
	}

	if m := testNumRe.FindStringSubmatch(body); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			tp.Number = n
		}
		body = body[len(m[0]):]
	}

	body = strings.TrimSpace(body)
	if desc, ok := strings.CutPrefix(body, "-"); ok {
		tp.Description = optionalText(desc)
	}
	return tp
}

// annotationStart returns the index of the first '#' not preceded by a
// backslash, or -1.
func annotationStart(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] == '#' && (i == 0 || s[i-1] != '\\') {
			return i
		}
	}
	return -1
}

// Directive extracts a SKIP or TODO directive from an annotation. Any other
// annotation yields nil.
func Directive(annotation string) map[string]*string {
	m := directiveRe.FindStringSubmatch(annotation)
	if m == nil {
		return nil
	}
	return map[string]*string{m[1]: optionalText(m[2])}
}

// Depth returns the nesting level of line. Blank lines have no depth.
func Depth(line string) (int, bool) {
	trimmed := strings.TrimLeft(line, " \t")
	if strings.TrimSpace(trimmed) == "" {
		return 0, false
	}
	return (len(line) - len(trimmed)) / TabWidth, true
}

// optionalText trims s and restores escaped hashes. Blank text is nil.
func optionalText(s string) *string {
	s = strings.TrimSpace(strings.ReplaceAll(s, `\#`, "#"))
	if s == "" {
		return nil
	}
	return &s
}

func pragmaState(enabled bool) string {
	if enabled {
		return domain.PragmaEnable
	}
	return domain.PragmaDisable
}
