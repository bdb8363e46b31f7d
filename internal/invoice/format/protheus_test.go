package format

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAmount(t *testing.T) {
	assert.Equal(t, "1.234,56", Amount(decimal.RequireFromString("1234.56")))
	assert.Equal(t, "1.500,00", Amount(decimal.RequireFromString("1500")))
	assert.Equal(t, "0,90", Amount(decimal.RequireFromString("0.9")))
}

func TestProtheusText(t *testing.T) {
	due := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	got := ProtheusText("DELL COMPUTADORES", "00.123.456/0001-00", "NF-42", decimal.RequireFromString("1234.56"), due)
	assert.Equal(t, "DELL COMPUTADORES | CPF/CNPJ: 00.123.456/0001-00 | NF: NF-42 | Valor R$: 1.234,56 | Vencimento: 31/01/2025", got)

	got = ProtheusText("G7", "  ", "7", decimal.RequireFromString("10"), due)
	assert.Equal(t, "G7 | CPF/CNPJ: ? | NF: 7 | Valor R$: 10,00 | Vencimento: 31/01/2025", got)
}
