package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FormData is the raw field map posted by a quote form. Its shape depends on
// the product line; only a handful of keys are interpreted by the service.
type FormData map[string]any

var (
	personalEmailKeys = []string{"email", "correo"}
	businessEmailKeys = []string{"emailEmpresa", "email", "correo"}
	messageKeys       = []string{"mensaje", "comentarios", "observaciones"}
)

// String renders the value under key as display text. Missing and null
// values render as "".
func (f FormData) String(key string) string {
	v, ok := f[key]
	if !ok {
		return ""
	}
	return display(v)
}

// First returns the first non-empty value among keys.
func (f FormData) First(keys ...string) string {
	for _, k := range keys {
		if s := strings.TrimSpace(f.String(k)); s != "" {
			return s
		}
	}
	return ""
}

// Join renders the non-empty values of keys separated by sep.
func (f FormData) Join(sep string, keys ...string) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if s := strings.TrimSpace(f.String(k)); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, sep)
}

// List returns the nested objects stored under key. Entries that are not
// objects are skipped.
func (f FormData) List(key string) []FormData {
	raw, ok := f[key].([]any)
	if !ok {
		return nil
	}
	out := make([]FormData, 0, len(raw))
	for _, item := range raw {
		switch m := item.(type) {
		case map[string]any:
			out = append(out, FormData(m))
		case FormData:
			out = append(out, m)
		}
	}
	return out
}

// InsuredPerson is one entry of the personasAdicionales list.
type InsuredPerson struct {
	Name         string
	Document     string
	Relationship string
	Age          string
}

// AdditionalInsured reads personasAdicionales. Each field accepts the alias
// keys the different health and life forms post.
func (f FormData) AdditionalInsured() []InsuredPerson {
	list := f.List("personasAdicionales")
	out := make([]InsuredPerson, 0, len(list))
	for _, p := range list {
		out = append(out, InsuredPerson{
			Name:         p.First("nombre", "nombreCompleto"),
			Document:     p.First("documento", "numeroDocumento", "cedula"),
			Relationship: p.First("parentesco"),
			Age:          p.First("edad", "fechaNacimiento"),
		})
	}
	return out
}

// NotAvailable is shown in place of absent values.
const NotAvailable = "N/A"

// OrNA returns s, or NotAvailable when s is blank.
func OrNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	return s
}

// JSON dumps the whole map. Keys are sorted by encoding/json, so the dump is
// stable for identical input.
func (f FormData) JSON() string {
	if f == nil {
		return "{}"
	}
	b, err := json.Marshal(map[string]any(f))
	if err != nil {
		return fmt.Sprintf("%v", map[string]any(f))
	}
	return string(b)
}

func display(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "Sí"
		}
		return "No"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := display(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		b, _ := json.Marshal(t)
		return string(b)
	default:
		return fmt.Sprint(t)
	}
}
