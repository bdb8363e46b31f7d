package report

import (
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/smallbiznis/payables/internal/invoice/format"
)

func renderPDF(data Data) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Horizontal).
		WithPageNumber(props.PageNumber{
			Pattern: "Página {current} de {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, data.Title, props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)
	m.AddRow(8,
		text.NewCol(6, "Filial: "+data.Branch, props.Text{Size: 10}),
		text.NewCol(6, "Competência: "+data.Period, props.Text{Size: 10, Align: align.Right}),
	)

	header := props.Text{Style: fontstyle.Bold, Size: 9}
	headerRight := props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}
	cell := props.Text{Size: 9}
	cellRight := props.Text{Size: 9, Align: align.Right}

	for _, group := range data.Groups {
		m.AddRow(10,
			text.NewCol(9, group.Supplier.CompanyName, props.Text{Size: 11, Style: fontstyle.Bold, Top: 3}),
			text.NewCol(3, "R$ "+format.Amount(group.Total), props.Text{Size: 11, Style: fontstyle.Bold, Top: 3, Align: align.Right}),
		)
		m.AddRow(7,
			text.NewCol(2, "Vencimento", header),
			text.NewCol(2, "NF", header),
			text.NewCol(1, "Série", header),
			text.NewCol(2, "Centro de custo", header),
			text.NewCol(2, "Status", header),
			text.NewCol(1, "Situação", header),
			text.NewCol(2, "Valor (R$)", headerRight),
		)
		for _, invoice := range group.Invoices {
			m.AddRow(6,
				text.NewCol(2, format.Date(invoice.DueDate), cell),
				text.NewCol(2, invoice.Number, cell),
				text.NewCol(1, invoice.Series, cell),
				text.NewCol(2, invoice.CostCenter, cell),
				text.NewCol(2, string(invoice.Status), cell),
				text.NewCol(1, string(invoice.Urgency), cell),
				text.NewCol(2, format.Amount(invoice.Amount), cellRight),
			)
		}
	}

	if len(data.Groups) == 0 {
		m.AddRow(10, text.NewCol(12, "Nenhuma nota encontrada.", props.Text{Size: 10, Top: 3}))
	}

	m.AddRow(12,
		col.New(8),
		text.NewCol(2, "Total geral", props.Text{Style: fontstyle.Bold, Size: 11, Top: 4}),
		text.NewCol(2, "R$ "+format.Amount(data.Total), props.Text{Style: fontstyle.Bold, Size: 11, Top: 4, Align: align.Right}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}
