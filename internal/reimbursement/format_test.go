package reimbursement

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("FormatCurrency", func() {
	DescribeTable("formats with a decimal comma",
		func(amount float64, want string) {
			Expect(FormatCurrency(amount)).To(Equal(want))
		},
		Entry("two decimals", 34.78, "34,78"),
		Entry("rounds up", 10.999, "11,00"),
		Entry("whole number", 1200.0, "1200,00"),
		Entry("one decimal", 99.9, "99,90"),
		Entry("zero", 0.0, "0,00"),
		Entry("half rounds up", 0.125, "0,13"),
		Entry("rounds the shortest decimal form", 1.005, "1,01"),
	)
})

var _ = Describe("ParseCurrency", func() {
	It("should read a decimal comma", func() {
		amount, err := ParseCurrency("34,78")
		Expect(err).NotTo(HaveOccurred())
		Expect(amount).To(Equal(34.78))
	})

	It("should read a decimal point", func() {
		amount, err := ParseCurrency("12.35")
		Expect(err).NotTo(HaveOccurred())
		Expect(amount).To(Equal(12.35))
	})

	It("should ignore surrounding spaces", func() {
		amount, err := ParseCurrency(" 5,5 ")
		Expect(err).NotTo(HaveOccurred())
		Expect(amount).To(Equal(5.5))
	})

	When("the value uses a thousands separator", func() {
		It("returns the error instead of reading a prefix", func() {
			_, err := ParseCurrency("1.234,56")
			Expect(err).To(MatchError(ContainSubstring(`parsing amount "1.234,56"`)))
		})
	})

	When("the value is not a number", func() {
		It("returns the error", func() {
			_, err := ParseCurrency("abc")
			Expect(err).To(MatchError(ContainSubstring(`parsing amount "abc"`)))
		})
	})
})

var _ = Describe("FormatDate", func() {
	It("should render day/month/year", func() {
		date, err := FormatDate("2024-01-15T00:00:00.000Z")
		Expect(err).NotTo(HaveOccurred())
		Expect(date).To(Equal("15/01/2024"))
	})

	When("the value is not a timestamp", func() {
		It("returns the error", func() {
			_, err := FormatDate("yesterday")
			Expect(err).To(HaveOccurred())
		})
	})
})
