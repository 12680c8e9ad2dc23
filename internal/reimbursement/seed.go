package reimbursement

import "github.com/zombor/reimburse-tracker/internal/receipt"

// samplePDF is a minimal single-page document used as the receipt of every
// seed record
const samplePDF = `%PDF-1.4
1 0 obj
<<
/Type /Catalog
/Pages 2 0 R
>>
endobj
2 0 obj
<<
/Type /Pages
/Kids [3 0 R]
/Count 1
>>
endobj
3 0 obj
<<
/Type /Page
/Parent 2 0 R
/Resources <<
/Font <<
/F1 4 0 R
>>
>>
/MediaBox [0 0 612 792]
/Contents 5 0 R
>>
endobj
4 0 obj
<<
/Type /Font
/Subtype /Type1
/BaseFont /Helvetica
>>
endobj
5 0 obj
<<
/Length 44
>>
stream
BT
/F1 12 Tf
100 700 Td
(Reimbursement Receipt) Tj
ET
endstream
endobj
xref
0 6
0000000000 65535 f
0000000009 00000 n
0000000058 00000 n
0000000115 00000 n
0000000262 00000 n
0000000341 00000 n
trailer
<<
/Size 6
/Root 1 0 R
>>
startxref
433
%%EOF`

// SeedData returns the sample reimbursements written to an empty store,
// newest first
func SeedData() []Reimbursement {
	pdf := receipt.Encode("application/pdf", []byte(samplePDF))

	return []Reimbursement{
		{ID: "1", Name: "Rodrigo", Category: CategoryFood, Amount: 34.78, Receipt: pdf, ReceiptName: "receipt-food.pdf", CreatedAt: "2024-01-15T00:00:00.000Z"},
		{ID: "2", Name: "Tamires", Category: CategoryLodging, Amount: 1200.00, Receipt: pdf, ReceiptName: "receipt-lodging.pdf", CreatedAt: "2024-01-14T00:00:00.000Z"},
		{ID: "3", Name: "Lara", Category: CategoryFood, Amount: 12.35, Receipt: pdf, ReceiptName: "receipt-snack.pdf", CreatedAt: "2024-01-13T00:00:00.000Z"},
		{ID: "4", Name: "Elias", Category: CategoryTransport, Amount: 47.65, Receipt: pdf, ReceiptName: "receipt-ride.pdf", CreatedAt: "2024-01-12T00:00:00.000Z"},
		{ID: "5", Name: "Thiago", Category: CategoryServices, Amount: 99.90, Receipt: pdf, ReceiptName: "receipt-service.pdf", CreatedAt: "2024-01-11T00:00:00.000Z"},
		{ID: "6", Name: "Vinicius", Category: CategoryOther, Amount: 25.89, Receipt: pdf, ReceiptName: "receipt-other.pdf", CreatedAt: "2024-01-10T00:00:00.000Z"},
	}
}
