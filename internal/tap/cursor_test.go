package tap_test

import (
	"slices"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/tapparser/internal/tap"
)

var _ = Describe("Cursor", func() {
	var c *tap.Cursor

	BeforeEach(func() {
		c = tap.NewCursor(slices.Values([]string{"a\n", `b\\c` + "\n", "c\n", "stop\n", "d\n"}))
	})

	AfterEach(func() {
		c.Close()
	})

	It("should peek without consuming", func() {
		l, ok := c.Peek()
		Expect(ok).To(BeTrue())
		Expect(l).To(Equal("a\n"))
		l, _ = c.Peek()
		Expect(l).To(Equal("a\n"))
		Expect(c.Line()).To(Equal(0))
	})

	It("should unescape double backslashes on next", func() {
		c.Next()
		l, ok := c.Next()
		Expect(ok).To(BeTrue())
		Expect(l).To(Equal(`b\c` + "\n"))
		Expect(c.Line()).To(Equal(2))
	})

	It("should leave the peeked line raw", func() {
		c.Next()
		l, _ := c.Peek()
		Expect(l).To(Equal(`b\\c` + "\n"))
	})

	It("should stop take-while before the first failing line", func() {
		var got []string
		for l := range c.TakeWhile(func(l string) bool { return l != "stop\n" }) {
			got = append(got, l)
		}
		Expect(got).To(Equal([]string{"a\n", `b\\c` + "\n", "c\n"}))

		l, ok := c.Next()
		Expect(ok).To(BeTrue())
		Expect(l).To(Equal("stop\n"))
	})

	It("should consume nothing when the first line fails", func() {
		for range c.TakeWhile(func(string) bool { return false }) {
			Fail("unexpected line")
		}
		l, _ := c.Next()
		Expect(l).To(Equal("a\n"))
	})

	It("should report end of input without failing", func() {
		for range 5 {
			_, ok := c.Next()
			Expect(ok).To(BeTrue())
		}
		_, ok := c.Next()
		Expect(ok).To(BeFalse())
		_, ok = c.Peek()
		Expect(ok).To(BeFalse())
		Expect(c.Line()).To(Equal(5))
	})
})

var _ = Describe("Lines", func() {
	It("should keep line terminators", func() {
		Expect(slices.Collect(tap.Lines([]byte("ok 1\nok 2\n")))).To(Equal([]string{"ok 1\n", "ok 2\n"}))
	})

	It("should keep a final unterminated line", func() {
		Expect(slices.Collect(tap.Lines([]byte("ok 1\nok 2")))).To(Equal([]string{"ok 1\n", "ok 2"}))
	})

	It("should yield nothing for empty input", func() {
		Expect(slices.Collect(tap.Lines(nil))).To(BeEmpty())
	})
})
