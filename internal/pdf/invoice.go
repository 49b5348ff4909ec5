package pdf

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// Item is one printed line of the receipt.
type Item struct {
	Name      string
	Quantity  int
	UnitPrice float64
}

// InvoiceData carries everything the receipt layout needs; callers resolve
// associations (customer name, product names) before handing it over.
type InvoiceData struct {
	Number        string
	CustomerName  string
	Date          string
	Subtotal      float64
	Tax           float64
	Total         float64
	PaymentMethod string
	Status        string
	Items         []Item
}

// Invoice renders the fixed-layout receipt for a committed invoice.
func Invoice(data InvoiceData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.Letter).
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		Build()
	m := maroto.New(cfg)

	m.AddRows(
		text.NewRow(10, "Invoice: "+data.Number, props.Text{Size: 16, Style: fontstyle.Bold}),
		text.NewRow(6, "Customer: "+data.CustomerName, props.Text{Size: 10}),
		text.NewRow(6, "Date: "+data.Date, props.Text{Size: 10}),
		text.NewRow(6, "Payment Method: "+data.PaymentMethod, props.Text{Size: 10}),
		text.NewRow(6, "Status: "+data.Status, props.Text{Size: 10}),
	)

	m.AddRow(8,
		text.NewCol(6, "Item", props.Text{Size: 10, Style: fontstyle.Bold}),
		text.NewCol(3, "Qty", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(3, "Unit Price", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
	)
	for _, it := range data.Items {
		m.AddRow(6,
			text.NewCol(6, it.Name, props.Text{Size: 10}),
			text.NewCol(3, fmt.Sprintf("%d", it.Quantity), props.Text{Size: 10, Align: align.Right}),
			text.NewCol(3, fmt.Sprintf("$%.2f", it.UnitPrice), props.Text{Size: 10, Align: align.Right}),
		)
	}

	m.AddRow(4, col.New(12))
	m.AddRows(
		totalRow("Subtotal", data.Subtotal, false),
		totalRow("Tax", data.Tax, false),
		totalRow("Total", data.Total, true),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}

func totalRow(label string, amount float64, bold bool) core.Row {
	style := fontstyle.Normal
	if bold {
		style = fontstyle.Bold
	}
	return row.New(6).Add(
		text.NewCol(9, label, props.Text{Size: 10, Align: align.Right, Style: style}),
		text.NewCol(3, fmt.Sprintf("$%.2f", amount), props.Text{Size: 10, Align: align.Right, Style: style}),
	)
}
