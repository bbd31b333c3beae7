package parser_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/tapparser/internal/parser"
	"github.com/fjglira/tapparser/internal/tap"
)

var _ = Describe("MarkdownParser", func() {
	var p *parser.MarkdownParser

	BeforeEach(func() {
		p = parser.NewMarkdownParser(tap.NewParser(tap.Options{}))
	})

	Describe("SupportedExtensions", func() {
		It("should support .md and .markdown", func() {
			Expect(p.SupportedExtensions()).To(ContainElements(".md", ".markdown"))
		})
	})

	Describe("Parse report.md", func() {
		var content []byte

		BeforeEach(func() {
			var err error
			content, err = os.ReadFile(filepath.Join("..", "..", "testdata", "markdown", "report.md"))
			Expect(err).ToNot(HaveOccurred())
		})

		It("should extract only tap fenced blocks", func() {
			doc, err := p.Parse("report.md", content, []string{"tap"})
			Expect(err).ToNot(HaveOccurred())
			Expect(doc.FileType).To(Equal("markdown"))
			Expect(doc.Streams).To(HaveLen(2))
		})

		It("should use the name attribute as description", func() {
			doc, err := p.Parse("report.md", content, []string{"tap"})
			Expect(err).ToNot(HaveOccurred())
			Expect(*doc.Streams[0].Document.Description).To(Equal("unit"))
			Expect(doc.Streams[0].Attributes).To(HaveKeyWithValue("name", "unit"))
		})

		It("should fall back to file and line as description", func() {
			doc, err := p.Parse("report.md", content, []string{"tap"})
			Expect(err).ToNot(HaveOccurred())
			Expect(*doc.Streams[1].Document.Description).To(HavePrefix("report.md:"))
		})

		It("should record the first content line", func() {
			doc, err := p.Parse("report.md", content, []string{"tap"})
			Expect(err).ToNot(HaveOccurred())
			Expect(doc.Streams[0].LineNumber).To(Equal(8))
		})

		It("should set context from the nearest heading", func() {
			doc, err := p.Parse("report.md", content, []string{"tap"})
			Expect(err).ToNot(HaveOccurred())
			Expect(doc.Streams[0].Context).To(Equal("Unit tests"))
			Expect(doc.Streams[1].Context).To(Equal("Integration tests"))
			Expect(doc.Headings).To(HaveLen(3))
		})

		It("should parse the embedded TAP", func() {
			doc, err := p.Parse("report.md", content, []string{"tap"})
			Expect(err).ToNot(HaveOccurred())
			unit := doc.Streams[0].Document
			Expect(unit.Tests).To(HaveLen(2))
			Expect(*unit.ExpectedTests).To(Equal(2))

			integration := doc.Streams[1].Document
			Expect(integration.Tests[0].OK).To(BeFalse())
			Expect(integration.Tests[0].Diagnostics).To(HaveKeyWithValue("status", 503))
		})

		It("should find nothing for unknown tags", func() {
			doc, err := p.Parse("report.md", content, []string{"junit"})
			Expect(err).ToNot(HaveOccurred())
			Expect(doc.Streams).To(BeEmpty())
		})
	})

	It("should return no streams for prose only", func() {
		content, err := os.ReadFile(filepath.Join("..", "..", "testdata", "markdown", "empty.md"))
		Expect(err).ToNot(HaveOccurred())
		doc, err := p.Parse("empty.md", content, []string{"tap"})
		Expect(err).ToNot(HaveOccurred())
		Expect(doc.Streams).To(BeEmpty())
		Expect(doc.Headings).To(HaveLen(1))
	})
})
