// seed_materials genera un script SQL para cargar el catálogo de materiales
// a partir de un CSV exportado del ERP (separador ';', codificación ISO-8859-1).
//
// Columnas: codigo;nombre;unidad;precio_unitario;stock_minimo;punto_reorden;volumen_unitario;codigo_proveedor
//
// Uso: go run ./cmd/seed_materials [ruta/materiales.csv]
// Por defecto busca materiales.csv en el directorio actual.
// Escribe: internal/infrastructure/postgres/migrations/002_seed_materials.sql
package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
)

type material struct {
	code          string
	name          string
	unit          string
	unitPrice     decimal.Decimal
	minimumStock  decimal.Decimal
	reorderPoint  decimal.Decimal
	volumePerUnit decimal.Decimal
	supplierCode  string
}

func main() {
	csvPath := "materiales.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	materials, skipped, err := readMaterials(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	// Orden por código para salida estable
	sort.Slice(materials, func(i, j int) bool { return materials[i].code < materials[j].code })

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "002_seed_materials.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	out.WriteString("-- Catálogo de materiales\n")
	out.WriteString("-- Generado desde " + filepath.Base(csvPath) + "\n\n")
	for _, m := range materials {
		supplier := "NULL"
		if m.supplierCode != "" {
			supplier = fmt.Sprintf("(SELECT id FROM suppliers WHERE code = '%s')", escapeSQL(m.supplierCode))
		}
		fmt.Fprintf(out, "INSERT INTO materials (id, code, name, unit, unit_price, minimum_stock, maximum_stock, reorder_point, volume_per_unit, supplier_id, created_at, updated_at)\n")
		fmt.Fprintf(out, "VALUES ('%s', '%s', '%s', '%s', %s, %s, 0, %s, %s, %s, NOW(), NOW())\n",
			uuid.NewString(), escapeSQL(m.code), escapeSQL(m.name), m.unit,
			m.unitPrice.String(), m.minimumStock.String(), m.reorderPoint.String(), m.volumePerUnit.String(), supplier)
		out.WriteString("ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, unit_price = EXCLUDED.unit_price, updated_at = NOW();\n")
	}

	fmt.Printf("Generado %s: %d materiales, %d filas omitidas\n", outPath, len(materials), skipped)
}

// readMaterials lee el CSV ya decodificado a UTF-8. Omite encabezado y filas
// con código vacío o unidad desconocida; un número mal formado es error.
func readMaterials(r io.Reader) ([]material, int, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var (
		out     []material
		skipped int
		line    int
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, err
		}
		line++
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "codigo") {
			continue
		}
		if len(rec) < 7 {
			skipped++
			continue
		}
		m := material{
			code: strings.TrimSpace(rec[0]),
			name: strings.TrimSpace(rec[1]),
			unit: strings.ToLower(strings.TrimSpace(rec[2])),
		}
		if len(rec) > 7 {
			m.supplierCode = strings.TrimSpace(rec[7])
		}
		if m.code == "" || m.name == "" || !entity.ValidUnit(m.unit) {
			skipped++
			continue
		}
		nums := []*decimal.Decimal{&m.unitPrice, &m.minimumStock, &m.reorderPoint, &m.volumePerUnit}
		for i, dst := range nums {
			v, err := parseNumber(rec[3+i])
			if err != nil {
				return nil, 0, fmt.Errorf("línea %d columna %d: %w", line, 4+i, err)
			}
			*dst = v
		}
		out = append(out, m)
	}
	return out, skipped, nil
}

// parseNumber acepta coma decimal ("12,50") además de punto.
func parseNumber(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("valor negativo %s", s)
	}
	return d, nil
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
