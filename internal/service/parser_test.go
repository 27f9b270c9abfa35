package service

import (
	"strings"
	"testing"

	"invoice-converter/internal/models"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

const indiaInvoiceText = `Tax Invoice/Bill of Supply/Cash Memo
(Original for Recipient)
Sold By :
Cloudtail India Private Limited
Plot No 12, Industrial Area
Bengaluru, Karnataka, 560099
IN
PAN No: AAQCS4259Q
GST Registration No: 29AAQCS4259Q1ZW
Order Number: 403-1234567-7654321
Order Date: 05.03.2024
Billing Address :
Ravi Kumar
12, MG Road
Bengaluru, KARNATAKA, 560001
IN
State/UT Code: 29
Shipping Address :
Ravi Kumar
12, MG Road
Bengaluru, KARNATAKA, 560001
IN
State/UT Code: 29
Place of supply: KARNATAKA
Place of delivery: KARNATAKA
Invoice Number : BLX1-123456
Invoice Details : KA-BLX1-1034567-2324
Invoice Date : 05.03.2024
Sl.
No
Description
Unit
Price
Qty
Net
Amount
Tax
Rate
Tax
Type
Tax
Amount
Total
Amount
1
Wooden Wall Shelf Set of 3
(Brown)
| B07ABCDEF1 ( WS-01 )
HSN:9403
₹1,000.00
1
₹1,000.00
9%
CGST
₹90.00
9%
SGST
₹90.00
₹1,180.00
TOTAL:
₹180.00
₹1,180.00
Amount in Words:
One Thousand One Hundred Eighty only
`

const indiaInvoiceRows = `Tax Invoice/Bill of Supply/Cash Memo
Order Number: 403-1234567-7654321 Order Date: 05.03.2024
Shipping Address : Ravi Kumar 12, MG Road Bengaluru, KARNATAKA, 560001 IN State/UT Code: 29
Invoice Number : BLX1-123456 Invoice Details : KA-BLX1-1034567-2324 Invoice Date : 05.03.2024
Sl. No Description Unit Price Qty Net Amount Tax Rate Tax Type Tax Amount Total Amount
1 Wooden Wall Shelf Set of 3 (Brown) | B07ABCDEF1 ( WS-01 ) HSN:9403 ₹1,000.00 1 ₹1,000.00 9% CGST ₹90.00 ₹1,180.00
TOTAL: ₹180.00 ₹1,180.00
`

func newTestParser(t *testing.T) *FieldParser {
	return NewFieldParser(DefaultRules(), zaptest.NewLogger(t))
}

func TestParseSummaryExample(t *testing.T) {
	p := newTestParser(t)

	record := p.Parse("Order Number: 123-4567890-1234567\nOrder Date: January 1, 2024\nItems shipped\nTotal: $42.10")

	assert.Equal(t, "123-4567890-1234567", record.OrderNumber)
	assert.Equal(t, "January 1, 2024", record.OrderDate)
	assert.Equal(t, "$42.10", record.TotalAmount)
	assert.Empty(t, record.InvoiceNumber)
	assert.Empty(t, record.CustomerAddress)
	assert.Empty(t, record.Description)
}

func TestParseOrderNumberToken(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "plain", text: "Order Number: 123-4567890-1234567"},
		{name: "surrounding whitespace", text: "Order Number:    123-4567890-1234567   \nOrder Date: 1.1.2024"},
		{name: "no space after colon", text: "Order Number:123-4567890-1234567"},
		{name: "lower case label", text: "order number : 123-4567890-1234567"},
		{name: "followed by another label", text: "Order Number: 123-4567890-1234567 Invoice Number : IN-1"},
		{name: "value on next line", text: "Order Number:\n  123-4567890-1234567\nOrder Date: 1.1.2024"},
		{name: "windows line endings", text: "Order Number: 123-4567890-1234567\r\nOrder Date: 1.1.2024\r\n"},
	}

	p := newTestParser(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, "123-4567890-1234567", p.Parse(tt.text).OrderNumber)
		})
	}
}

func TestParseMissingLabelLeavesOtherFields(t *testing.T) {
	blocks := []struct {
		field string
		text  string
	}{
		{"order_number", "Order Number: 123-4567890-1234567"},
		{"order_date", "Order Date: January 1, 2024"},
		{"invoice_number", "Invoice Number: IN-998877"},
		{"customer_address", "Shipping Address: Jane Doe\n1 Main Street, Springfield\nState/UT Code: 29"},
		{"invoice_details", "Invoice Details: KA-1034567-2324"},
		{"description", "Description: Widget A"},
		{"total_amount", "Total: $42.10"},
	}
	join := func(skip string) string {
		var parts []string
		for _, b := range blocks {
			if b.field != skip {
				parts = append(parts, b.text)
			}
		}
		return strings.Join(parts, "\n")
	}

	p := newTestParser(t)
	full := p.Parse(join(""))
	assert.Equal(t, models.InvoiceRecord{
		OrderNumber:     "123-4567890-1234567",
		OrderDate:       "January 1, 2024",
		InvoiceNumber:   "IN-998877",
		CustomerAddress: "Jane Doe 1 Main Street, Springfield",
		InvoiceDetails:  "KA-1034567-2324",
		Description:     "Widget A",
		TotalAmount:     "$42.10",
	}, full)

	for i, b := range blocks {
		t.Run(b.field, func(t *testing.T) {
			got := p.Parse(join(b.field)).Values()
			want := full.Values()
			for j := range want {
				if j == i {
					assert.Empty(t, got[j], "removed field %s", b.field)
					continue
				}
				assert.Equal(t, want[j], got[j], "column %s", models.Columns[j].Key)
			}
		})
	}
}

func TestParseRepeatedLabels(t *testing.T) {
	p := newTestParser(t)

	text := strings.Join([]string{
		"Order Number: 123-4567890-1234567",
		"Description: Widget A",
		"Description: Widget B",
		"Total: $10.00",
		"Order Number: 123-4567890-1234567",
		"Description: Widget A",
		"Sub Total: $40.00",
		"Total: $42.10",
	}, "\n")

	record := p.Parse(text)
	assert.Equal(t, "123-4567890-1234567", record.OrderNumber, "identical repeats collapse")
	assert.Equal(t, "Widget A; Widget B", record.Description)
	assert.Equal(t, "$42.10", record.TotalAmount)
}

func TestParseDistinctOrderNumbersConcatenated(t *testing.T) {
	p := newTestParser(t)

	record := p.Parse("Order Number: 111-1111111-1111111\npage 2\nOrder Number: 222-2222222-2222222")
	assert.Equal(t, "111-1111111-1111111; 222-2222222-2222222", record.OrderNumber)
}

func TestParseAmazonIndiaLayout(t *testing.T) {
	want := models.InvoiceRecord{
		OrderNumber:     "403-1234567-7654321",
		OrderDate:       "05.03.2024",
		InvoiceNumber:   "BLX1-123456",
		CustomerAddress: "Ravi Kumar 12, MG Road Bengaluru, KARNATAKA, 560001 IN",
		InvoiceDetails:  "KA-BLX1-1034567-2324",
		Description:     "Wooden Wall Shelf Set of 3 (Brown)",
		TotalAmount:     "₹1,180.00",
	}

	tests := []struct {
		name string
		text string
	}{
		{name: "one cell per line", text: indiaInvoiceText},
		{name: "one table row per line", text: indiaInvoiceRows},
	}

	p := newTestParser(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, want, p.Parse(tt.text))
		})
	}
}

func TestParseTableItems(t *testing.T) {
	text := `Sl.
No
Description
Unit
Price
1
Item Alpha Widget
| B0AAAAAAA1 ( SKU1 )
HSN:1234
₹500.00
1
₹500.00
2
Item Beta Gadget
Large
| B0BBBBBBB2 ( SKU2 )
HSN:5678
₹600.00
2
₹1,200.00
TOTAL:
₹1,700.00
`
	record := newTestParser(t).Parse(text)
	assert.Equal(t, "Item Alpha Widget; Item Beta Gadget Large", record.Description)
	assert.Equal(t, "₹1,700.00", record.TotalAmount)
}

func TestParseFallbacks(t *testing.T) {
	text := "Amazon order 405-7654321-1234567 placed 12.02.2024\n" +
		"Ref IN-445566 KA-BLR7-998877-2425\n" +
		"Item price ₹2,499.00\nCGST ₹3,000.00\nPaid ₹2,999.00\n"

	record := newTestParser(t).Parse(text)
	assert.Equal(t, "405-7654321-1234567", record.OrderNumber)
	assert.Equal(t, "12.02.2024", record.OrderDate)
	assert.Equal(t, "IN-445566", record.InvoiceNumber)
	assert.Equal(t, "KA-BLR7-998877-2425", record.InvoiceDetails)
	assert.Equal(t, "₹2,999.00", record.TotalAmount, "tax lines are ignored")
}

func TestParseTotalIgnoresSubtotal(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "subtotal", text: "Subtotal: $50.00\nPromotion Applied: -$10.00\nTotal: $40.00"},
		{name: "sub total", text: "Sub Total: $50.00\nPromotion Applied: -$10.00\nTotal: $40.00"},
		{name: "sub-total", text: "Sub-Total: $50.00\nDiscount: -$10.00\nOrder Total: $40.00"},
		{name: "same line", text: "Items Subtotal: $50.00 Total: $40.00"},
		{name: "total first", text: "Total: $40.00\nSubTotal: $50.00"},
	}

	p := newTestParser(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := p.Parse("Order Number: 123-4567890-1234567\n" + tt.text)
			assert.Equal(t, "$40.00", record.TotalAmount)
			assert.Equal(t, "123-4567890-1234567", record.OrderNumber)
		})
	}
}

func TestParseInvoiceValueGetsRupeeSign(t *testing.T) {
	record := newTestParser(t).Parse("Invoice Value: 1,299.00\nAmounts in ₹")
	assert.Equal(t, "₹1,299.00", record.TotalAmount)
}

func TestParseEmptyAndUnrelatedText(t *testing.T) {
	p := newTestParser(t)

	for _, text := range []string{"", "   \n\n", "Dear customer, thank you for shopping with us."} {
		assert.True(t, p.Parse(text).IsEmpty(), "text %q", text)
	}
}

func TestParseIsDeterministic(t *testing.T) {
	p := newTestParser(t)
	assert.Equal(t, p.Parse(indiaInvoiceText), p.Parse(indiaInvoiceText))
	assert.Equal(t, newTestParser(t).Parse(indiaInvoiceRows), p.Parse(indiaInvoiceRows))
}

func TestLargestAmount(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   string
	}{
		{name: "empty", values: nil, want: ""},
		{name: "grouping separators", values: []string{"₹999.00", "₹1,180.00", "₹180.00"}, want: "₹1,180.00"},
		{name: "tie keeps first", values: []string{"$5.00", "USD 5.00"}, want: "$5.00"},
		{name: "unparsable ignored", values: []string{"₹", "Rs. 12.50"}, want: "Rs. 12.50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, largestAmount(tt.values))
		})
	}
}

func TestCleanDescription(t *testing.T) {
	got := cleanDescription("  - Wooden Shelf HSN:9403 ₹1,000.00 9% CGST Unit Price | ")
	assert.Equal(t, "Wooden Shelf", got)
}
