package report

import (
	"github.com/smallbiznis/payables/internal/invoice/format"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Competência"

var columns = []string{
	"Fornecedor", "Vencimento", "NF", "Série", "CNPJ", "Contrato",
	"Centro de custo", "Status", "Situação", "Valor (R$)",
}

func renderXLSX(data Data) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return nil, err
	}
	boldMoney, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, NumFmt: 4})
	if err != nil {
		return nil, err
	}

	row := 1
	setRow := func(values ...any) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		row++
		return f.SetSheetRow(sheetName, cell, &values)
	}
	cellName := func(col, r int) string {
		name, _ := excelize.CoordinatesToCellName(col, r)
		return name
	}

	if err := setRow(data.Title); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, "A1", "A1", bold); err != nil {
		return nil, err
	}
	if err := setRow("Filial", data.Branch, "Competência", data.Period); err != nil {
		return nil, err
	}
	row++

	header := make([]any, len(columns))
	for i, name := range columns {
		header[i] = name
	}
	if err := setRow(header...); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, cellName(1, row-1), cellName(len(columns), row-1), bold); err != nil {
		return nil, err
	}
	if err := f.SetPanes(sheetName, &excelize.Panes{Freeze: true, YSplit: row - 1, TopLeftCell: cellName(1, row), ActivePane: "bottomLeft"}); err != nil {
		return nil, err
	}

	for _, group := range data.Groups {
		for _, invoice := range group.Invoices {
			err := setRow(
				group.Supplier.CompanyName,
				format.Date(invoice.DueDate),
				invoice.Number,
				invoice.Series,
				invoice.CNPJ,
				invoice.Contract,
				invoice.CostCenter,
				string(invoice.Status),
				string(invoice.Urgency),
				invoice.Amount.InexactFloat64(),
			)
			if err != nil {
				return nil, err
			}
			amount := cellName(len(columns), row-1)
			if err := f.SetCellStyle(sheetName, amount, amount, money); err != nil {
				return nil, err
			}
		}
		if err := setRow("Subtotal "+group.Supplier.CompanyName, "", "", "", "", "", "", "", "", group.Total.InexactFloat64()); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheetName, cellName(1, row-1), cellName(len(columns), row-1), boldMoney); err != nil {
			return nil, err
		}
	}
	if err := setRow("Total geral", "", "", "", "", "", "", "", "", data.Total.InexactFloat64()); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, cellName(1, row-1), cellName(len(columns), row-1), boldMoney); err != nil {
		return nil, err
	}

	if err := f.SetColWidth(sheetName, "A", "A", 32); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheetName, "B", "J", 16); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
