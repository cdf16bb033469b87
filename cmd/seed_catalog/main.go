// seed_catalog genera un script SQL idempotente para poblar la tabla categories
// a partir de un CSV (code,name[,description][,sort_order]).
//
// Uso: go run ./cmd/seed_catalog [ruta/categorias.csv] [salida.sql]
// Por defecto lee categorias.csv del directorio actual y escribe en stdout.
// El CSV puede venir en UTF-8 o en Latin-1 (exportes de Excel); se detecta solo.
package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type category struct {
	code        string
	name        string
	description string
	sortOrder   int
}

func main() {
	csvPath := "categorias.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	raw, err := os.ReadFile(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}

	cats, err := parseCategories(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	var out io.Writer = os.Stdout
	if len(os.Args) > 2 {
		f, err := os.Create(os.Args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	if err := writeSQL(out, cats); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Generado: %d categorías\n", len(cats))
}

// decode devuelve un lector UTF-8 sobre raw. Lo que no es UTF-8 válido se trata como ISO-8859-1.
func decode(raw []byte) io.Reader {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if utf8.Valid(raw) {
		return bytes.NewReader(raw)
	}
	return transform.NewReader(bytes.NewReader(raw), charmap.ISO8859_1.NewDecoder())
}

// parseCategories lee el CSV. Acepta coma o punto y coma como separador y omite la cabecera.
// Si un código se repite gana la última fila.
func parseCategories(raw []byte) ([]category, error) {
	r := csv.NewReader(decode(raw))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	if firstLine, _, _ := bytes.Cut(raw, []byte("\n")); bytes.Count(firstLine, []byte(";")) > bytes.Count(firstLine, []byte(",")) {
		r.Comma = ';'
	}

	byCode := make(map[string]category)
	line := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "code") {
			continue
		}
		if len(rec) < 2 {
			return nil, fmt.Errorf("línea %d: se esperan al menos code y name", line)
		}
		c := category{
			code: strings.ToUpper(strings.TrimSpace(rec[0])),
			name: strings.TrimSpace(rec[1]),
		}
		if c.code == "" || c.name == "" {
			continue
		}
		if len(rec) > 2 {
			c.description = strings.TrimSpace(rec[2])
		}
		if len(rec) > 3 && strings.TrimSpace(rec[3]) != "" {
			n, err := strconv.Atoi(strings.TrimSpace(rec[3]))
			if err != nil {
				return nil, fmt.Errorf("línea %d: sort_order inválido %q", line, rec[3])
			}
			c.sortOrder = n
		}
		byCode[c.code] = c
	}

	cats := make([]category, 0, len(byCode))
	for _, c := range byCode {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i].code < cats[j].code })
	return cats, nil
}

func writeSQL(w io.Writer, cats []category) error {
	var b strings.Builder
	b.WriteString("-- Categorías del catálogo\n")
	b.WriteString("-- Generado por cmd/seed_catalog\n\n")
	if len(cats) == 0 {
		b.WriteString("-- (sin categorías)\n")
		_, err := io.WriteString(w, b.String())
		return err
	}
	b.WriteString("INSERT INTO categories (code, name, description, sort_order) VALUES\n")
	for i, c := range cats {
		fmt.Fprintf(&b, "  ('%s', '%s', '%s', %d)", escapeSQL(c.code), escapeSQL(c.name), escapeSQL(c.description), c.sortOrder)
		if i < len(cats)-1 {
			b.WriteString(",\n")
		} else {
			b.WriteString("\n")
		}
	}
	b.WriteString("ON CONFLICT (code) DO UPDATE SET\n")
	b.WriteString("  name = EXCLUDED.name,\n")
	b.WriteString("  description = EXCLUDED.description,\n")
	b.WriteString("  sort_order = EXCLUDED.sort_order,\n")
	b.WriteString("  updated_at = now();\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
