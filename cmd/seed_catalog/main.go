// seed_catalog genera un script SQL para poblar productos, bodegas y ubicaciones
// a partir de un XML de catálogo (acepta ISO-8859-1 además de UTF-8).
//
// Uso: go run ./cmd/seed_catalog [ruta/catalogo.xml] [salida.sql]
// Por defecto lee catalogo.xml y escribe catalog_seed.sql en el directorio actual.
//
// Formato:
//
//	<catalogo>
//	  <bodega codigo="WH" nombre="Bodega principal">
//	    <ubicacion codigo="WH/STOCK" nombre="Stock"/>
//	  </bodega>
//	  <producto sku="SKU-0001" nombre="Tornillo" unidad="UND" reorden="10" costo="250"/>
//	</catalogo>
//
// Los IDs se derivan del código (UUID v5), así que el script es idempotente.
package main

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type catalogo struct {
	Bodegas   []bodega   `xml:"bodega"`
	Productos []producto `xml:"producto"`
}

type bodega struct {
	Codigo      string      `xml:"codigo,attr"`
	Nombre      string      `xml:"nombre,attr"`
	Direccion   string      `xml:"direccion,attr"`
	Ubicaciones []ubicacion `xml:"ubicacion"`
}

type ubicacion struct {
	Codigo string `xml:"codigo,attr"`
	Nombre string `xml:"nombre,attr"`
}

type producto struct {
	SKU       string `xml:"sku,attr"`
	Nombre    string `xml:"nombre,attr"`
	Categoria string `xml:"categoria,attr"`
	Unidad    string `xml:"unidad,attr"`
	Reorden   string `xml:"reorden,attr"`
	Costo     string `xml:"costo,attr"`
}

func main() {
	xmlPath, outPath := "catalogo.xml", "catalog_seed.sql"
	if len(os.Args) > 1 {
		xmlPath = os.Args[1]
	}
	if len(os.Args) > 2 {
		outPath = os.Args[2]
	}

	f, err := os.Open(xmlPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir XML: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	cat, err := decodeCatalog(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Decodificar XML: %v\n", err)
		os.Exit(1)
	}

	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, cat); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d bodegas, %d productos\n", outPath, len(cat.Bodegas), len(cat.Productos))
}

func decodeCatalog(r io.Reader) (*catalogo, error) {
	var c catalogo
	dec := xml.NewDecoder(r)
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		if strings.EqualFold(charset, "ISO-8859-1") || strings.EqualFold(charset, "ISO8859-1") {
			return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
		}
		return input, nil
	}
	if err := dec.Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// writeSQL escribe bodegas, ubicaciones y productos ordenados por código para una salida estable.
func writeSQL(w io.Writer, c *catalogo) error {
	var b strings.Builder
	b.WriteString("-- Catálogo generado por cmd/seed_catalog\n\n")

	bodegas := append([]bodega(nil), c.Bodegas...)
	sort.Slice(bodegas, func(i, j int) bool { return bodegas[i].Codigo < bodegas[j].Codigo })

	b.WriteString("-- 1. Bodegas y ubicaciones\n")
	for _, bg := range bodegas {
		code := strings.TrimSpace(bg.Codigo)
		if code == "" || strings.TrimSpace(bg.Nombre) == "" {
			return fmt.Errorf("bodega sin código o nombre")
		}
		whID := catalogID("warehouse", code)
		fmt.Fprintf(&b, "INSERT INTO warehouses (id, code, name, address) VALUES ('%s', '%s', '%s', '%s')\n",
			whID, escapeSQL(code), escapeSQL(strings.TrimSpace(bg.Nombre)), escapeSQL(strings.TrimSpace(bg.Direccion)))
		b.WriteString("ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, address = EXCLUDED.address, updated_at = now();\n")

		ubicaciones := append([]ubicacion(nil), bg.Ubicaciones...)
		sort.Slice(ubicaciones, func(i, j int) bool { return ubicaciones[i].Codigo < ubicaciones[j].Codigo })
		for _, u := range ubicaciones {
			locCode := strings.TrimSpace(u.Codigo)
			if locCode == "" {
				return fmt.Errorf("ubicación sin código en bodega %s", code)
			}
			name := strings.TrimSpace(u.Nombre)
			if name == "" {
				name = locCode
			}
			fmt.Fprintf(&b, "INSERT INTO locations (id, warehouse_id, code, name) VALUES ('%s', '%s', '%s', '%s')\n",
				catalogID("location", code+"|"+locCode), whID, escapeSQL(locCode), escapeSQL(name))
			b.WriteString("ON CONFLICT (warehouse_id, code) DO UPDATE SET name = EXCLUDED.name, updated_at = now();\n")
		}
	}

	productos := append([]producto(nil), c.Productos...)
	sort.Slice(productos, func(i, j int) bool { return productos[i].SKU < productos[j].SKU })

	b.WriteString("\n-- 2. Productos\n")
	for _, p := range productos {
		sku := strings.TrimSpace(p.SKU)
		if sku == "" || strings.TrimSpace(p.Nombre) == "" {
			return fmt.Errorf("producto sin sku o nombre")
		}
		reorder, err := parseQty(p.Reorden)
		if err != nil {
			return fmt.Errorf("producto %s: reorden: %w", sku, err)
		}
		cost := "NULL"
		if strings.TrimSpace(p.Costo) != "" {
			d, err := parseQty(p.Costo)
			if err != nil {
				return fmt.Errorf("producto %s: costo: %w", sku, err)
			}
			cost = d.String()
		}
		unit := strings.TrimSpace(p.Unidad)
		if unit == "" {
			unit = "UND"
		}
		fmt.Fprintf(&b, "INSERT INTO products (id, sku, name, category, unit_measure, reorder_level, unit_cost) VALUES ('%s', '%s', '%s', '%s', '%s', %s, %s)\n",
			catalogID("product", sku), escapeSQL(sku), escapeSQL(strings.TrimSpace(p.Nombre)),
			escapeSQL(strings.TrimSpace(p.Categoria)), escapeSQL(unit), reorder.String(), cost)
		b.WriteString("ON CONFLICT (sku) DO UPDATE SET name = EXCLUDED.name, category = EXCLUDED.category, unit_measure = EXCLUDED.unit_measure, reorder_level = EXCLUDED.reorder_level, unit_cost = EXCLUDED.unit_cost, updated_at = now();\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// catalogID UUID v5 estable por tipo y código.
func catalogID(kind, code string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(kind+":"+code)).String()
}

func parseQty(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("no puede ser negativo")
	}
	return d, nil
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
