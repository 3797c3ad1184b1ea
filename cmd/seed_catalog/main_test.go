package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogXML = `<?xml version="1.0" encoding="UTF-8"?>
<catalogo>
  <bodega codigo="WH" nombre="Bodega principal">
    <ubicacion codigo="WH/SHELF-A" nombre="Estante A"/>
    <ubicacion codigo="WH/STOCK"/>
  </bodega>
  <producto sku="SKU-0002" nombre="Tuerca d'acero" reorden="5"/>
  <producto sku="SKU-0001" nombre="Tornillo" unidad="CAJA" reorden="10" costo="250.5"/>
</catalogo>`

func TestWriteSQL_OrdenaYEscapa(t *testing.T) {
	cat, err := decodeCatalog(strings.NewReader(catalogXML))
	require.NoError(t, err)

	var out strings.Builder
	require.NoError(t, writeSQL(&out, cat))
	sql := out.String()

	assert.Contains(t, sql, "'Tuerca d''acero'")
	assert.Contains(t, sql, "'CAJA', 10, 250.5)")
	assert.Contains(t, sql, "'UND', 5, NULL)")
	assert.Less(t, strings.Index(sql, "'SKU-0001'"), strings.Index(sql, "'SKU-0002'"))
	assert.Less(t, strings.Index(sql, "'WH/SHELF-A'"), strings.Index(sql, "'WH/STOCK'"))
	assert.Contains(t, sql, "'WH/STOCK', 'WH/STOCK')", "sin nombre se usa el código")
}

func TestWriteSQL_IDsEstables(t *testing.T) {
	assert.Equal(t, catalogID("product", "SKU-0001"), catalogID("product", "SKU-0001"))
	assert.NotEqual(t, catalogID("product", "X"), catalogID("warehouse", "X"))
}

func TestDecodeCatalog_Latin1(t *testing.T) {
	// "Café" en ISO-8859-1: é = 0xE9
	raw := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><catalogo><producto sku=\"C1\" nombre=\"Caf\xe9\"/></catalogo>"
	cat, err := decodeCatalog(strings.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, cat.Productos, 1)
	assert.Equal(t, "Café", cat.Productos[0].Nombre)
}

func TestWriteSQL_RechazaReordenNegativo(t *testing.T) {
	cat := &catalogo{Productos: []producto{{SKU: "X", Nombre: "X", Reorden: "-1"}}}
	var out strings.Builder
	assert.Error(t, writeSQL(&out, cat))
}
