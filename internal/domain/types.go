package domain

// Directive keys.
const (
	DirectiveSkip    = "SKIP"
	DirectiveTodo    = "TODO"
	DirectiveBailOut = "bail out"
)

// Pragma states.
const (
	PragmaEnable  = "enable"
	PragmaDisable = "disable"
)

// Document is one parsed TAP block. The root block of a stream also carries
// the protocol version and the pragma table; nested blocks never do.
type Document struct {
	Tests         []TestResult       `json:"tests" yaml:"tests"`
	ExpectedTests *int               `json:"expected_tests,omitempty" yaml:"expected_tests,omitempty"`
	Description   *string            `json:"description,omitempty" yaml:"description,omitempty"`
	TAPVersion    *int               `json:"tap_version,omitempty" yaml:"tap_version,omitempty"`
	Directives    map[string]*string `json:"directives,omitempty" yaml:"directives,omitempty"`
	Pragmas       map[string]string  `json:"pragmas,omitempty" yaml:"pragmas,omitempty"`
}

// BailedOut reports whether the block was cut short by a "Bail out!" line.
func (d *Document) BailedOut() bool {
	_, ok := d.Directives[DirectiveBailOut]
	return ok
}

// TestResult is a single test point.
//
// A record with Number 0 is a synthetic holder for subtests that had no
// following test line to attach to; only Children is set on it.
type TestResult struct {
	Number           int                `json:"number,omitempty" yaml:"number,omitempty"`
	Description      *string            `json:"description,omitempty" yaml:"description,omitempty"`
	OK               bool               `json:"ok" yaml:"ok"`
	Directives       map[string]*string `json:"directives,omitempty" yaml:"directives,omitempty"`
	Diagnostics      any                `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
	DiagnosticsError string             `json:"diagnostics_error,omitempty" yaml:"diagnostics_error,omitempty"`
	Children         *Document          `json:"children,omitempty" yaml:"children,omitempty"`
}

// Synthetic reports whether the record only holds orphaned subtests.
func (t *TestResult) Synthetic() bool {
	return t.Number == 0
}

// Directive returns the SKIP or TODO directive carried by the test, if any.
func (t *TestResult) Directive() (key string, reason *string, ok bool) {
	for k, v := range t.Directives {
		return k, v, true
	}
	return "", nil, false
}

// ParsedDocument holds every TAP stream found in a single input file.
type ParsedDocument struct {
	FilePath string
	FileType string      // "tap", "markdown", "asciidoc"
	Streams  []TAPStream // One per embedded or standalone TAP source
	Headings []Heading   // Document structure (for context inference)
}

// TAPStream is one TAP source and its parse result.
type TAPStream struct {
	LineNumber int               // 1-based line where the TAP text starts in the file
	Context    string            // Nearest heading / section title
	Attributes map[string]string // Key-value attributes from the fence info
	Document   *Document
}

// Heading represents a document heading for context inference.
type Heading struct {
	Level int
	Text  string
	Line  int
}
