// Package catalog turns loosely-typed stored product documents into
// models.Product and falls back to a compiled-in catalog when the live
// store has nothing to offer.
package catalog

import (
	"encoding/json"
	"math"
	"reflect"
	"strings"

	"github.com/spf13/cast"

	"storefront/models"
)

const (
	defaultName  = "Untitled product"
	defaultImage = "/placeholder.svg"
)

var standardSizes = [...]string{"XS", "S", "M", "L", "XL"}

// StandardSizes returns the size run used when a product stores none.
func StandardSizes() []string {
	return append([]string(nil), standardSizes[:]...)
}

// NormalizeProduct coerces raw field by field. It never fails: every field
// has a default, and nothing about raw's shape is assumed.
func NormalizeProduct(id string, raw map[string]any) models.Product {
	price := numberField(raw["price"], 0)
	if price < 0 {
		price = 0
	}
	originalPrice := numberField(firstPresent(raw, "originalPrice", "compareAtPrice"), 0)
	if originalPrice <= 0 {
		originalPrice = price
	}

	sizes, ok := stringList(raw["sizes"])
	if !ok || len(sizes) == 0 {
		sizes = StandardSizes()
	}

	soldOut := truthy(raw["soldOut"])
	available := !soldOut
	if b, isBool := raw["available"].(bool); isBool && !b {
		available = false
	}

	p := models.Product{
		ID:            id,
		Slug:          stringField(raw["slug"], id),
		Name:          stringField(raw["name"], defaultName),
		Price:         price,
		OriginalPrice: originalPrice,
		Image:         stringField(raw["image"], defaultImage),
		Images:        listOrEmpty(raw["images"]),
		Description:   stringField(raw["description"], ""),
		Sizes:         sizes,
		Available:     available,
		Categories:    listOrEmpty(raw["categories"]),
		Limited:       truthy(raw["limited"]),
		SoldOut:       soldOut,
	}
	if features, ok := stringList(raw["features"]); ok && len(features) > 0 {
		p.Features = features
	}
	return p
}

func stringField(v any, fallback string) string {
	s, ok := v.(string)
	if !ok {
		return fallback
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	return s
}

// numberField accepts finite numbers and numeric strings. Booleans are not
// numbers here even though cast would happily turn them into 1 and 0.
func numberField(v any, fallback float64) float64 {
	var (
		f   float64
		err error
	)
	switch t := v.(type) {
	case nil, bool:
		return fallback
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return fallback
		}
		f, err = cast.ToFloat64E(s)
	default:
		f, err = cast.ToFloat64E(v)
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fallback
	}
	return f
}

func firstPresent(raw map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// stringList reports ok only when v really is a list. Any slice type counts,
// so BSON arrays decoded by the mongo driver pass as well as []any from JSON.
func stringList(v any) ([]string, bool) {
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]string, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		s := strings.TrimSpace(cast.ToString(rv.Index(i).Interface()))
		if s != "" {
			out = append(out, s)
		}
	}
	return out, true
}

func listOrEmpty(v any) []string {
	if list, ok := stringList(v); ok {
		return list
	}
	return []string{}
}

// truthy mirrors loose truthiness: false, zero, NaN, "" and nil are false,
// everything else (including empty lists and maps) is true.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	case reflect.Pointer:
		return !rv.IsNil()
	}
	return true
}
