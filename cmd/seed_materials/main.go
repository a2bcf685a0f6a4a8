// seed_materials genera una migración goose con categorías y materiales iniciales
// a partir de un catálogo CSV (UTF-8 o GBK, como los que exporta Excel en chino).
//
// Uso: go run ./cmd/seed_materials -in catalogo.csv [-encoding gbk] [-out ruta.sql]
// Columnas reconocidas (cabecera obligatoria, orden libre):
// code, name, category, unit, stock_quantity, min_stock, max_stock, unit_price, location, supplier, description
// Por defecto escribe internal/infrastructure/postgres/migrations/00002_seed_materials.sql
package main

import (
	"bytes"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

type materialRow struct {
	Code        string
	Name        string
	Category    string
	Unit        string
	Description string
	Stock       int64
	MinStock    *int64
	MaxStock    *int64
	UnitPrice   *decimal.Decimal
	Location    string
	Supplier    string
}

var requiredColumns = []string{"code", "name", "category", "unit"}

func main() {
	in := flag.String("in", "materiales.csv", "catálogo CSV de entrada")
	encoding := flag.String("encoding", "utf8", "codificación del CSV: utf8 | gbk")
	out := flag.String("out", "", "archivo SQL de salida")
	flag.Parse()

	f, err := os.Open(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	r, err := decodeReader(f, *encoding)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	rows, err := readRows(r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	outPath := *out
	if outPath == "" {
		outPath = filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "migrations", "00002_seed_materials.sql")
	}
	var buf bytes.Buffer
	writeSQL(&buf, rows)
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d materiales en %d categorías\n", outPath, len(rows), len(categoriesOf(rows)))
}

// decodeReader convierte la entrada a UTF-8 y descarta el BOM si existe.
func decodeReader(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(encoding) {
	case "utf8", "utf-8", "":
		return transform.NewReader(r, unicode.UTF8BOM.NewDecoder()), nil
	case "gbk", "cp936":
		return transform.NewReader(r, simplifiedchinese.GBK.NewDecoder()), nil
	case "gb18030":
		return transform.NewReader(r, simplifiedchinese.GB18030.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("codificación no soportada: %q", encoding)
	}
}

func readRows(r io.Reader) ([]materialRow, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("cabecera: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("falta la columna %q", c)
		}
	}

	var rows []materialRow
	seen := make(map[string]int)
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		get := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		row := materialRow{
			Code:        get("code"),
			Name:        get("name"),
			Category:    get("category"),
			Unit:        get("unit"),
			Description: get("description"),
			Location:    get("location"),
			Supplier:    get("supplier"),
		}
		if row.Code == "" && row.Name == "" {
			continue
		}
		if row.Code == "" || row.Name == "" || row.Category == "" || row.Unit == "" {
			return nil, fmt.Errorf("línea %d: code, name, category y unit son obligatorios", line)
		}
		if prev, dup := seen[row.Code]; dup {
			return nil, fmt.Errorf("línea %d: código %s repetido (línea %d)", line, row.Code, prev)
		}
		seen[row.Code] = line

		if row.Stock, err = parseQuantity(get("stock_quantity")); err != nil {
			return nil, fmt.Errorf("línea %d: stock_quantity: %w", line, err)
		}
		if row.MinStock, err = parseOptionalQuantity(get("min_stock")); err != nil {
			return nil, fmt.Errorf("línea %d: min_stock: %w", line, err)
		}
		if row.MaxStock, err = parseOptionalQuantity(get("max_stock")); err != nil {
			return nil, fmt.Errorf("línea %d: max_stock: %w", line, err)
		}
		if row.MinStock != nil && row.MaxStock != nil && *row.MinStock > *row.MaxStock {
			return nil, fmt.Errorf("línea %d: min_stock mayor que max_stock", line)
		}
		if p := get("unit_price"); p != "" {
			price, err := decimal.NewFromString(p)
			if err != nil || price.IsNegative() {
				return nil, fmt.Errorf("línea %d: unit_price inválido %q", line, p)
			}
			price = price.Round(2)
			row.UnitPrice = &price
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseQuantity(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("debe ser un entero >= 0, recibido %q", s)
	}
	return n, nil
}

func parseOptionalQuantity(s string) (*int64, error) {
	if s == "" {
		return nil, nil
	}
	n, err := parseQuantity(s)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func categoriesOf(rows []materialRow) []string {
	var out []string
	seen := make(map[string]bool)
	for _, r := range rows {
		if !seen[r.Category] {
			seen[r.Category] = true
			out = append(out, r.Category)
		}
	}
	return out
}

// writeSQL escribe una migración idempotente: el stock inicial es stock base, sin entradas en el libro.
func writeSQL(w *bytes.Buffer, rows []materialRow) {
	w.WriteString("-- Catálogo inicial de materiales\n")
	w.WriteString("-- Generado por cmd/seed_materials\n\n")
	w.WriteString("-- +goose Up\n")

	for i, c := range categoriesOf(rows) {
		fmt.Fprintf(w, "INSERT INTO material_categories (name, sort_order) VALUES ('%s', %d)\n", escapeSQL(c), i)
		w.WriteString("ON CONFLICT (name) DO NOTHING;\n")
	}
	w.WriteString("\n")

	for _, r := range rows {
		w.WriteString("INSERT INTO materials (code, name, category_id, description, unit, stock_quantity, min_stock, max_stock, unit_price, location, supplier)\n")
		fmt.Fprintf(w, "SELECT '%s', '%s', id, '%s', '%s', %d, %s, %s, %s, '%s', '%s' FROM material_categories WHERE name = '%s'\n",
			escapeSQL(r.Code), escapeSQL(r.Name), escapeSQL(r.Description), escapeSQL(r.Unit), r.Stock,
			sqlInt(r.MinStock), sqlInt(r.MaxStock), sqlDecimal(r.UnitPrice),
			escapeSQL(r.Location), escapeSQL(r.Supplier), escapeSQL(r.Category))
		w.WriteString("ON CONFLICT (code) DO NOTHING;\n")
	}

	w.WriteString("\n-- +goose Down\n")
	if len(rows) > 0 {
		codes := make([]string, len(rows))
		for i, r := range rows {
			codes[i] = "'" + escapeSQL(r.Code) + "'"
		}
		fmt.Fprintf(w, "DELETE FROM materials WHERE code IN (%s)\n", strings.Join(codes, ", "))
		w.WriteString("  AND NOT EXISTS (SELECT 1 FROM material_transactions t WHERE t.material_id = materials.id);\n")
	}
}

func sqlInt(v *int64) string {
	if v == nil {
		return "NULL"
	}
	return strconv.FormatInt(*v, 10)
}

func sqlDecimal(v *decimal.Decimal) string {
	if v == nil {
		return "NULL"
	}
	return v.StringFixed(2)
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
