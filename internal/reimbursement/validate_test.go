package reimbursement

import (
	"bytes"
	"image"
	"image/png"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/reimburse-tracker/internal/receipt"
)

func pngBytes() []byte {
	var buf bytes.Buffer
	Expect(png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1)))).To(Succeed())
	return buf.Bytes()
}

var _ = Describe("Form.Validate", func() {
	var (
		form   Form
		result *NewReimbursement
		err    error
	)

	BeforeEach(func() {
		form = Form{
			Name:     "  Rodrigo  ",
			Category: "Food",
			Amount:   "34,78",
			Filename: "lunch.png",
			File:     pngBytes(),
		}
	})

	JustBeforeEach(func() {
		result, err = form.Validate()
	})

	When("every field is valid", func() {
		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should trim the name", func() {
			Expect(result.Name).To(Equal("Rodrigo"))
		})

		It("should parse the amount", func() {
			Expect(result.Amount).To(Equal(34.78))
		})

		It("should encode the file with its sniffed type", func() {
			blob, decodeErr := receipt.Decode(result.Receipt)
			Expect(decodeErr).NotTo(HaveOccurred())
			Expect(blob.MediaType).To(Equal("image/png"))
			Expect(blob.Data).To(Equal(pngBytes()))
			Expect(result.ReceiptName).To(Equal("lunch.png"))
		})
	})

	When("the file is a PDF", func() {
		BeforeEach(func() {
			form.File = []byte("%PDF-1.4\n%%EOF\n")
		})

		It("should accept it", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Receipt).To(HavePrefix("data:application/pdf;base64,"))
		})
	})

	DescribeTable("rejecting a field",
		func(mutate func(*Form), field, message string) {
			mutate(&form)
			_, err := form.Validate()
			var fields ValidationErrors
			Expect(err).To(BeAssignableToTypeOf(ValidationErrors{}))
			fields = err.(ValidationErrors)
			Expect(fields).To(HaveKeyWithValue(field, ContainSubstring(message)))
		},
		Entry("missing name", func(f *Form) { f.Name = "  " }, "name", "required"),
		Entry("short name", func(f *Form) { f.Name = "Al" }, "name", "at least 3"),
		Entry("missing category", func(f *Form) { f.Category = "" }, "category", "required"),
		Entry("unknown category", func(f *Form) { f.Category = "Travel" }, "category", "Unknown"),
		Entry("missing amount", func(f *Form) { f.Amount = "" }, "amount", "required"),
		Entry("non-numeric amount", func(f *Form) { f.Amount = "ten" }, "amount", "greater than zero"),
		Entry("zero amount", func(f *Form) { f.Amount = "0,00" }, "amount", "greater than zero"),
		Entry("negative amount", func(f *Form) { f.Amount = "-5" }, "amount", "greater than zero"),
		Entry("NaN amount", func(f *Form) { f.Amount = "NaN" }, "amount", "greater than zero"),
		Entry("missing file", func(f *Form) { f.File = nil }, "file", "required"),
		Entry("text file", func(f *Form) { f.File = []byte("just some text") }, "file", "Invalid file type"),
		Entry("oversized file", func(f *Form) {
			f.File = append(pngBytes(), make([]byte, MaxReceiptSize)...)
		}, "file", "too large"),
	)

	When("several fields are invalid", func() {
		BeforeEach(func() {
			form.Name = ""
			form.Amount = "x"
		})

		It("should report all of them", func() {
			Expect(err).To(HaveOccurred())
			Expect(err.(ValidationErrors)).To(HaveLen(2))
		})

		It("should list them in the message", func() {
			Expect(strings.HasPrefix(err.Error(), "invalid reimbursement: amount:")).To(BeTrue())
		})
	})
})
