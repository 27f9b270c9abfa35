package models

// InvoiceRecord is one spreadsheet row extracted from a single invoice PDF.
// Values are kept exactly as printed on the invoice; a field that could not
// be located is the empty string.
type InvoiceRecord struct {
	OrderNumber     string `json:"order_number"`
	OrderDate       string `json:"order_date"`
	InvoiceNumber   string `json:"invoice_number"`
	CustomerAddress string `json:"customer_address"`
	InvoiceDetails  string `json:"invoice_details"`
	Description     string `json:"description"`
	TotalAmount     string `json:"total_amount"`
	SourceFile      string `json:"source_file"`
}

// Column describes one spreadsheet column.
type Column struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Width float64 `json:"-"`
}

// Columns lists the spreadsheet columns in output order.
var Columns = []Column{
	{Key: "order_number", Label: "Order Number", Width: 20},
	{Key: "order_date", Label: "Order Date", Width: 12},
	{Key: "invoice_number", Label: "Invoice Number", Width: 15},
	{Key: "customer_address", Label: "Customer Address", Width: 50},
	{Key: "invoice_details", Label: "Invoice Details", Width: 25},
	{Key: "description", Label: "Description", Width: 80},
	{Key: "total_amount", Label: "Total Amount", Width: 12},
	{Key: "source_file", Label: "Source File", Width: 20},
}

// HeaderLabels returns the header row.
func HeaderLabels() []string {
	labels := make([]string, len(Columns))
	for i, col := range Columns {
		labels[i] = col.Label
	}
	return labels
}

// Values returns the record's cells in Columns order.
func (r InvoiceRecord) Values() []string {
	return []string{
		r.OrderNumber,
		r.OrderDate,
		r.InvoiceNumber,
		r.CustomerAddress,
		r.InvoiceDetails,
		r.Description,
		r.TotalAmount,
		r.SourceFile,
	}
}

// IsEmpty reports whether no invoice field was extracted. SourceFile is
// not an extracted field and is ignored.
func (r InvoiceRecord) IsEmpty() bool {
	values := r.Values()
	for _, v := range values[:len(values)-1] {
		if v != "" {
			return false
		}
	}
	return true
}
