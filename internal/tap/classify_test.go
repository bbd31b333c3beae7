package tap_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/tapparser/internal/tap"
)

var _ = Describe("Classify", func() {
	It("should recognize the protocol version", func() {
		l := tap.Classify("TAP version 999\n")
		Expect(l.Kind).To(Equal(tap.KindVersion))
		Expect(l.Version).To(Equal(999))
	})

	It("should recognize comments", func() {
		Expect(tap.Classify("#   ").Kind).To(Equal(tap.KindComment))
		Expect(tap.Classify("   #").Kind).To(Equal(tap.KindComment))
		Expect(tap.Classify("# Subtest: foo\n").Kind).To(Equal(tap.KindComment))
	})

	It("should recognize plans, indented or not", func() {
		l := tap.Classify("1..5\n")
		Expect(l.Kind).To(Equal(tap.KindPlan))
		Expect(l.Plan).To(Equal(5))

		l = tap.Classify("    1..2\n")
		Expect(l.Kind).To(Equal(tap.KindPlan))
		Expect(l.Plan).To(Equal(2))

		Expect(tap.Classify("1..0 # skip all\n").Plan).To(Equal(0))
	})

	It("should recognize bail-outs", func() {
		l := tap.Classify("Bail out!")
		Expect(l.Kind).To(Equal(tap.KindBailOut))
		Expect(l.Reason).To(BeNil())

		l = tap.Classify("Bail out! I'm tired")
		Expect(*l.Reason).To(Equal("I'm tired"))

		l = tap.Classify("Bail out! no newline\n")
		Expect(*l.Reason).To(Equal("no newline"))
	})

	It("should recognize pragmas", func() {
		l := tap.Classify("pragma +foo  \n")
		Expect(l.Kind).To(Equal(tap.KindPragma))
		Expect(l.PragmaName).To(Equal("foo"))
		Expect(l.PragmaEnabled).To(BeTrue())

		l = tap.Classify("pragma -bar_baz-1")
		Expect(l.PragmaName).To(Equal("bar_baz-1"))
		Expect(l.PragmaEnabled).To(BeFalse())

		Expect(tap.Classify("pragma +foo bar").Kind).To(Equal(tap.KindOther))
	})

	Describe("test points", func() {
		It("should accept a bare ok", func() {
			l := tap.Classify("ok")
			Expect(l.Kind).To(Equal(tap.KindTestPoint))
			Expect(l.Test.OK).To(BeTrue())
			Expect(l.Test.Number).To(BeZero())
			Expect(l.Test.Description).To(BeNil())
			Expect(l.Test.Annotation).To(BeEmpty())
		})

		It("should keep the indentation", func() {
			l := tap.Classify("    ok")
			Expect(l.Test.Indent).To(Equal("    "))
		})

		It("should accept not ok", func() {
			l := tap.Classify("not ok\n")
			Expect(l.Kind).To(Equal(tap.KindTestPoint))
			Expect(l.Test.OK).To(BeFalse())
		})

		It("should split number, description and annotation", func() {
			l := tap.Classify("not ok 4 - Summarized correctly # TODO Not written yet\n")
			Expect(l.Test.OK).To(BeFalse())
			Expect(l.Test.Number).To(Equal(4))
			Expect(*l.Test.Description).To(Equal("Summarized correctly"))
			Expect(l.Test.Annotation).To(Equal("# TODO Not written yet"))
		})

		It("should drop an empty description", func() {
			l := tap.Classify("ok 5 - # SKIP no /sys directory")
			Expect(l.Test.Number).To(Equal(5))
			Expect(l.Test.Description).To(BeNil())
			Expect(l.Test.Annotation).To(Equal("# SKIP no /sys directory"))
		})

		It("should ignore text without a dash separator", func() {
			l := tap.Classify("ok 3 something")
			Expect(l.Kind).To(Equal(tap.KindTestPoint))
			Expect(l.Test.Number).To(Equal(3))
			Expect(l.Test.Description).To(BeNil())
		})

		It("should not start an annotation at an escaped hash", func() {
			l := tap.Classify(`ok 1 - issue \#42 fixed # TODO verify`)
			Expect(*l.Test.Description).To(Equal("issue #42 fixed"))
			Expect(l.Test.Annotation).To(Equal("# TODO verify"))
		})

		It("should not treat words starting with ok as test points", func() {
			Expect(tap.Classify("okay then").Kind).To(Equal(tap.KindOther))
		})
	})

	It("should ignore unknown lines", func() {
		Expect(tap.Classify("random text\n").Kind).To(Equal(tap.KindOther))
		Expect(tap.Classify("\n").Kind).To(Equal(tap.KindOther))
	})
})

var _ = Describe("Directive", func() {
	It("should extract TODO without reason", func() {
		d := tap.Directive("# TODO")
		Expect(d).To(HaveKey("TODO"))
		Expect(d["TODO"]).To(BeNil())
	})

	It("should extract TODO with reason", func() {
		d := tap.Directive("# TODO things later")
		Expect(*d["TODO"]).To(Equal("things later"))
	})

	It("should extract SKIP with reason", func() {
		d := tap.Directive("# SKIP no /sys directory")
		Expect(*d["SKIP"]).To(Equal("no /sys directory"))
	})

	It("should restore escaped hashes in the reason", func() {
		d := tap.Directive(`# SKIP see \#12`)
		Expect(*d["SKIP"]).To(Equal("see #12"))
	})

	It("should be case sensitive", func() {
		Expect(tap.Directive("# skip later")).To(BeNil())
	})

	It("should ignore other annotations", func() {
		Expect(tap.Directive("# just a note")).To(BeNil())
	})
})

var _ = Describe("Depth", func() {
	DescribeTable("leading whitespace",
		func(line string, depth int, defined bool) {
			d, ok := tap.Depth(line)
			Expect(ok).To(Equal(defined))
			Expect(d).To(Equal(depth))
		},
		Entry("no indentation", "ok 1\n", 0, true),
		Entry("two spaces", "  ok 1\n", 0, true),
		Entry("four spaces", "    ok 1\n", 1, true),
		Entry("seven spaces", "       ok 1\n", 1, true),
		Entry("eight spaces", "        ok 1\n", 2, true),
		Entry("blank line", "    \n", 0, false),
		Entry("empty line", "", 0, false),
	)
})
