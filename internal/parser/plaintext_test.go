package parser_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/tapparser/internal/parser"
	"github.com/fjglira/tapparser/internal/tap"
)

var _ = Describe("PlaintextParser", func() {
	var p *parser.PlaintextParser

	BeforeEach(func() {
		var err error
		p, err = parser.NewPlaintextParser(
			tap.NewParser(tap.Options{}),
			`^\s*@begin\((\S+)(?:\s+(.*))?\)\s*$`,
			`^\s*@end\s*$`,
		)
		Expect(err).ToNot(HaveOccurred())
	})

	Describe("Parse ci.txt", func() {
		var content []byte

		BeforeEach(func() {
			var err error
			content, err = os.ReadFile(filepath.Join("..", "..", "testdata", "plaintext", "ci.txt"))
			Expect(err).ToNot(HaveOccurred())
		})

		It("should extract 2 sections", func() {
			doc, err := p.Parse("ci.txt", content, []string{"tap"})
			Expect(err).ToNot(HaveOccurred())
			Expect(doc.FileType).To(Equal("plaintext"))
			Expect(doc.Streams).To(HaveLen(2))
		})

		It("should extract attributes from the begin marker", func() {
			doc, err := p.Parse("ci.txt", content, []string{"tap"})
			Expect(err).ToNot(HaveOccurred())
			Expect(doc.Streams[0].Attributes).To(HaveKeyWithValue("suite", "api"))
			Expect(doc.Streams[0].LineNumber).To(Equal(4))
		})

		It("should ignore log lines outside the markers", func() {
			doc, err := p.Parse("ci.txt", content, []string{"tap"})
			Expect(err).ToNot(HaveOccurred())
			api := doc.Streams[0].Document
			Expect(api.Tests).To(HaveLen(2))
			Expect(api.Tests[1].OK).To(BeFalse())
		})

		It("should run an unclosed section to the end of the file", func() {
			doc, err := p.Parse("ci.txt", content, []string{"tap"})
			Expect(err).ToNot(HaveOccurred())
			Expect(doc.Streams[1].Document.Tests).To(HaveLen(1))
		})
	})

	It("should return error for invalid regex", func() {
		_, err := parser.NewPlaintextParser(tap.NewParser(tap.Options{}), "[invalid", `^\s*@end\s*$`)
		Expect(err).To(HaveOccurred())
	})
})
