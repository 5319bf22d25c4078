package spreadsheet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteThenParse(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, []Sheet{
		{
			Name:    "Clientes",
			Headers: []string{"ClienteID", "Nome", "Telefone"},
			Records: [][]any{
				{"C1", "Ana", nil},
				{"C2", "Bia", "11 5555-0000"},
			},
		},
		{
			Name:    "Eventos",
			Headers: []string{"EventoID", "QtdCriancas"},
		},
	})
	require.NoError(t, err)

	wb, err := Parse(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, []string{"Clientes", "Eventos"}, wb.SheetNames)

	rows := wb.Rows("Clientes")
	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, TextCell("C1"), rows[0].Values["ClienteID"])
	assert.Nil(t, rows[0].Values["Telefone"])
	assert.Equal(t, TextCell("11 5555-0000"), rows[1].Values["Telefone"])

	assert.Empty(t, wb.Rows("Eventos"))
}

func TestWriteRequiresSheets(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Write(&buf, nil))
	assert.Zero(t, buf.Len())
}
