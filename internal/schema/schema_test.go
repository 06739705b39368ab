package schema

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestField_Raw(t *testing.T) {
	f := NewField("precio", "price", "valor")

	t.Run("first present key wins", func(t *testing.T) {
		v, ok := f.Raw(map[string]any{"price": 2.0, "precio": 1.0})
		if !ok || v != 1.0 {
			t.Errorf("expected 1.0, got %v (ok=%v)", v, ok)
		}
	})

	t.Run("nil values are skipped", func(t *testing.T) {
		v, ok := f.Raw(map[string]any{"precio": nil, "price": 2.0})
		if !ok || v != 2.0 {
			t.Errorf("expected 2.0, got %v (ok=%v)", v, ok)
		}
	})

	t.Run("absent on empty record", func(t *testing.T) {
		if _, ok := f.Raw(map[string]any{}); ok {
			t.Error("expected absent")
		}
	})

	t.Run("absent on nil record", func(t *testing.T) {
		if _, ok := f.Raw(nil); ok {
			t.Error("expected absent")
		}
	})
}

func TestField_WithNested(t *testing.T) {
	f := NewField("categoria_id").WithNested(
		NewField("categoria", "category"),
		NewField("id"),
	)

	t.Run("direct key preferred", func(t *testing.T) {
		record := map[string]any{"categoria_id": 7, "categoria": map[string]any{"id": 9}}
		if v, ok := f.Raw(record); !ok || v != 7 {
			t.Errorf("expected 7, got %v", v)
		}
	})

	t.Run("descends into wrapper", func(t *testing.T) {
		record := map[string]any{"category": map[string]any{"id": 9}}
		if v, ok := f.Raw(record); !ok || v != 9 {
			t.Errorf("expected 9, got %v", v)
		}
	})

	t.Run("wrapper that is not an object is ignored", func(t *testing.T) {
		record := map[string]any{"categoria": "electronics"}
		if _, ok := f.Raw(record); ok {
			t.Error("expected absent")
		}
	})
}

func TestToFloat(t *testing.T) {
	tests := []struct {
		name string
		in   any
		def  float64
		want float64
	}{
		{"float64", 9.99, 0, 9.99},
		{"int", 3, 0, 3},
		{"json.Number", json.Number("12.5"), 0, 12.5},
		{"numeric string", "4.25", 0, 4.25},
		{"garbage string", "abc", 1.5, 1.5},
		{"nil", nil, 0.5, 0.5},
		{"object", map[string]any{}, 2, 2},
		{"bad json.Number", json.Number("x"), 7, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToFloat(tt.in, tt.def); got != tt.want {
				t.Errorf("ToFloat(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestToInt(t *testing.T) {
	tests := []struct {
		name   string
		in     any
		want   int
		wantOK bool
	}{
		{"int", 5, 5, true},
		{"float64", 5.0, 5, true},
		{"json.Number int", json.Number("10"), 10, true},
		{"json.Number float", json.Number("10.0"), 10, true},
		{"numeric string", "42", 42, true},
		{"float string", "42.0", 42, true},
		{"garbage", "x", 0, false},
		{"nil", nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToInt(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ToInt(%v) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestNormalizeList(t *testing.T) {
	t.Run("bare list passes through", func(t *testing.T) {
		in := []any{map[string]any{"id": 1}}
		got := NormalizeList(in)
		if !reflect.DeepEqual(got, in) {
			t.Errorf("expected list unchanged, got %v", got)
		}
	})

	t.Run("single address wraps into singleton", func(t *testing.T) {
		addr := map[string]any{"id_direccion": 10, "ciudad": "Lima"}
		got := NormalizeList(addr)
		if len(got) != 1 || !reflect.DeepEqual(got[0], addr) {
			t.Errorf("expected singleton, got %v", got)
		}
	})

	t.Run("wrapper yields first inner list", func(t *testing.T) {
		inner := []any{map[string]any{"id": 10}}
		got := NormalizeList(map[string]any{"data": inner})
		if !reflect.DeepEqual(got, inner) {
			t.Errorf("expected inner list, got %v", got)
		}
	})

	t.Run("object with id but no address content is not a single address", func(t *testing.T) {
		got := NormalizeList(map[string]any{"id": 10, "total": 3})
		if len(got) != 0 {
			t.Errorf("expected empty list, got %v", got)
		}
	})

	t.Run("unrecognized shapes become empty", func(t *testing.T) {
		for _, in := range []any{nil, "hi", 42, true} {
			if got := NormalizeList(in); len(got) != 0 {
				t.Errorf("NormalizeList(%v) = %v, want empty", in, got)
			}
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		inputs := []any{
			[]any{map[string]any{"id": 1}},
			map[string]any{"id_direccion": 10, "direccion": "Av. Sol 123"},
			map[string]any{"direcciones": []any{map[string]any{"id": 2}}},
			map[string]any{},
			nil,
		}
		for _, in := range inputs {
			once := NormalizeList(in)
			twice := NormalizeList(any(once))
			if !reflect.DeepEqual(once, twice) {
				t.Errorf("NormalizeList not idempotent for %v: %v vs %v", in, once, twice)
			}
		}
	})
}
