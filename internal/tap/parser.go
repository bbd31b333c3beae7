package tap

import (
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/fjglira/tapparser/internal/domain"
)

// DefaultMaxDepth is the subtest nesting limit used by NewParser.
const DefaultMaxDepth = 64

// Options controls parser behaviour.
type Options struct {
	// MaxDepth caps subtest nesting. Zero disables the limit.
	MaxDepth int
	// StrictDiagnostics turns unterminated or undecodable diagnostics
	// blocks into parse errors instead of per-test diagnostics errors.
	StrictDiagnostics bool
	// Decoder decodes diagnostics blocks. Defaults to YAMLDecoder.
	Decoder DiagnosticsDecoder
	// Log receives debug and warning messages. Defaults to a discarding logger.
	Log logrus.FieldLogger
}

// Parser turns TAP text into a domain.Document. A Parser holds no per-parse
// state and may be shared between goroutines.
type Parser struct {
	opts Options
}

// NewParser creates a Parser. Unset options take their defaults.
func NewParser(opts Options) *Parser {
	if opts.Decoder == nil {
		opts.Decoder = YAMLDecoder{}
	}
	if opts.Log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		opts.Log = l
	}
	if opts.MaxDepth < 0 {
		opts.MaxDepth = 0
	}
	return &Parser{opts: opts}
}

// Parse parses lines with the default options.
func Parse(description string, lines iter.Seq[string]) (*domain.Document, error) {
	return NewParser(Options{MaxDepth: DefaultMaxDepth}).Parse(description, lines)
}

// ParseBytes parses a complete TAP text.
func (p *Parser) ParseBytes(description string, content []byte) (*domain.Document, error) {
	return p.Parse(description, Lines(content))
}

// ParseReader parses TAP text read from r.
func (p *Parser) ParseReader(description string, r io.Reader) (*domain.Document, error) {
	var readErr error
	doc, err := p.Parse(description, ReaderLines(r, &readErr))
	if err != nil {
		return nil, err
	}
	if readErr != nil {
		return nil, domain.NewError("parse", description, 0, "failed to read TAP input", readErr)
	}
	return doc, nil
}

// Parse consumes lines once, left to right, and returns the root block.
// Each line is expected to keep its terminator.
func (p *Parser) Parse(description string, lines iter.Seq[string]) (*domain.Document, error) {
	c := NewCursor(lines)
	defer c.Close()

	st := &parseState{
		cursor:  c,
		source:  description,
		pragmas: make(map[string]string),
	}
	doc, err := p.parseBlock(st, 0, &description)
	if err != nil {
		return nil, err
	}

	doc.TAPVersion = st.version
	if len(st.pragmas) > 0 {
		doc.Pragmas = st.pragmas
	}
	return doc, nil
}

// parseState is shared by every block of a single parse.
type parseState struct {
	cursor  *Cursor
	source  string
	version *int
	pragmas map[string]string
}

// block is the per-depth assembly state.
type block struct {
	depth       int
	indent      string
	doc         *domain.Document
	encountered int
	pending     *domain.Document
}

// flushPending places subtests that no later test line claimed. They go to
// the last test of the block when it has no subtests yet, otherwise to a
// synthetic record.
func (b *block) flushPending() {
	if b.pending == nil {
		return
	}
	if n := len(b.doc.Tests); n > 0 && b.doc.Tests[n-1].Children == nil && !b.doc.Tests[n-1].Synthetic() {
		b.doc.Tests[n-1].Children = b.pending
	} else {
		b.doc.Tests = append(b.doc.Tests, domain.TestResult{Children: b.pending})
	}
	b.pending = nil
}

func (p *Parser) parseBlock(st *parseState, depth int, description *string) (*domain.Document, error) {
	c := st.cursor
	if p.opts.MaxDepth > 0 && depth > p.opts.MaxDepth {
		return nil, domain.NewErrorWithSuggestion("parse", st.source, c.Line()+1,
			fmt.Sprintf("subtests nested %d levels deep", depth),
			"raise parser.max_depth in tapparser.yaml or check the input indentation",
			domain.ErrMaxDepthExceeded)
	}

	b := &block{
		depth:  depth,
		indent: strings.Repeat(" ", depth*TabWidth),
		doc:    &domain.Document{Tests: []domain.TestResult{}, Description: description},
	}
	log := p.opts.Log.WithField("depth", depth)

	for {
		if next, ok := c.Peek(); ok {
			if d, ok := Depth(next); ok && d > depth {
				log.WithField("line", c.Line()+1).Debug("Entering subtest block")
				child, err := p.parseBlock(st, depth+1, nil)
				if err != nil {
					return nil, err
				}
				b.flushPending()
				b.pending = child
			}
		}

		raw, ok := c.Next()
		if !ok {
			break
		}

		line := Classify(raw)
		switch line.Kind {
		case KindVersion:
			v := line.Version
			st.version = &v
		case KindPlan:
			n := line.Plan
			b.doc.ExpectedTests = &n
		case KindPragma:
			st.pragmas[line.PragmaName] = pragmaState(line.PragmaEnabled)
		case KindTestPoint:
			test, err := p.testResult(st, b, line.Test)
			if err != nil {
				return nil, err
			}
			b.doc.Tests = append(b.doc.Tests, test)
		case KindBailOut:
			log.WithField("line", c.Line()).Debug("Bail out")
			b.doc.Directives = map[string]*string{domain.DirectiveBailOut: line.Reason}
			b.flushPending()
			return b.doc, nil
		}

		next, ok := c.Peek()
		if !ok {
			break
		}
		if d, ok := Depth(next); ok && d < depth {
			break
		}
	}

	b.flushPending()
	return b.doc, nil
}

func (p *Parser) testResult(st *parseState, b *block, tp TestPoint) (domain.TestResult, error) {
	c := st.cursor
	b.encountered++
	test := domain.TestResult{
		Number:      b.encountered,
		Description: tp.Description,
		OK:          tp.OK,
	}
	if tp.Number > 0 {
		test.Number = tp.Number
	}
	if tp.Annotation != "" {
		test.Directives = Directive(tp.Annotation)
	}

	diag, ok := readDiagnostics(c, b.indent)
	if ok {
		if err := p.decodeDiagnostics(st, diag, &test); err != nil {
			return test, err
		}
	}

	test.Children = b.pending
	b.pending = nil
	return test, nil
}

func (p *Parser) decodeDiagnostics(st *parseState, diag *diagnosticsBlock, test *domain.TestResult) error {
	log := p.opts.Log.WithField("line", diag.startLine)
	var problems []string

	if !diag.terminated {
		if p.opts.StrictDiagnostics {
			return domain.NewErrorWithSuggestion("parse", st.source, diag.startLine,
				"diagnostics block has no closing \"...\" line",
				"terminate the YAML block with a line containing only \"...\"",
				domain.ErrUnterminatedDiagnostics)
		}
		log.Warn("Diagnostics block runs to end of input")
		problems = append(problems, domain.ErrUnterminatedDiagnostics.Error())
	}

	v, err := p.opts.Decoder.Decode([]byte(diag.text))
	if err != nil {
		if p.opts.StrictDiagnostics {
			return domain.NewError("parse", st.source, diag.startLine,
				"failed to decode diagnostics block",
				fmt.Errorf("%w: %w", domain.ErrInvalidDiagnostics, err))
		}
		log.WithError(err).Warn("Ignoring undecodable diagnostics block")
		problems = append(problems, fmt.Sprintf("%s: %v", domain.ErrInvalidDiagnostics, err))
	} else {
		test.Diagnostics = v
	}

	test.DiagnosticsError = strings.Join(problems, "; ")
	return nil
}
