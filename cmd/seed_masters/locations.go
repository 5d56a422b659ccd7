package main

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/londor/les-inventario/internal/domain/entity"
)

const seedUser = "seed"

// parseLocations lee filas id;nombre;tipo;dirección. Si el contenido no es UTF-8 válido
// se decodifica como ISO-8859-1 (exportaciones de hojas de cálculo antiguas).
func parseLocations(raw []byte, now time.Time) ([]*entity.Location, error) {
	if !utf8.Valid(raw) {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
		if err != nil {
			return nil, fmt.Errorf("decodificar ISO-8859-1: %w", err)
		}
		raw = decoded
	}
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))

	r := csv.NewReader(bytes.NewReader(raw))
	r.Comma = ';'
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var out []*entity.Location
	seen := make(map[string]struct{})
	for line := 1; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "id") {
			continue
		}
		if len(rec) < 3 {
			return nil, fmt.Errorf("línea %d: se esperaban al menos 3 columnas", line)
		}
		id := strings.TrimSpace(rec[0])
		name := strings.TrimSpace(rec[1])
		typ := strings.ToUpper(strings.TrimSpace(rec[2]))
		if id == "" || name == "" {
			return nil, fmt.Errorf("línea %d: id y nombre son obligatorios", line)
		}
		if !entity.ValidLocationType(typ) {
			return nil, fmt.Errorf("línea %d: tipo %q no admitido", line, rec[2])
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("línea %d: id %s repetido", line, id)
		}
		seen[id] = struct{}{}
		loc := &entity.Location{
			ID:        id,
			Name:      name,
			Type:      typ,
			IsActive:  true,
			CreatedAt: now,
			CreatedBy: seedUser,
		}
		if len(rec) > 3 {
			loc.Address = strings.TrimSpace(rec[3])
		}
		out = append(out, loc)
	}
	return out, nil
}
