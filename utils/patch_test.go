package utils

import (
	"reflect"
	"testing"
)

func strp(s string) *string   { return &s }
func f64p(v float64) *float64 { return &v }
func intp(v int) *int         { return &v }

type samplePatch struct {
	Name         *string  `json:"name"`
	UnitPrice    *float64 `json:"unit_price"`
	ReorderLevel *int     `json:"reorder_level"`
	Hidden       *string  `json:"-"`
}

func TestUpdatesFromPtrDTO(t *testing.T) {
	tests := []struct {
		name    string
		dto     any
		renames map[string]string
		want    map[string]any
	}{
		{
			name: "only non-nil fields included",
			dto:  &samplePatch{Name: strp("soap"), ReorderLevel: intp(5)},
			want: map[string]any{"name": "soap", "reorder_level": 5},
		},
		{
			name: "all nil yields empty map",
			dto:  &samplePatch{},
			want: map[string]any{},
		},
		{
			name:    "renames translate json name to column",
			dto:     &samplePatch{UnitPrice: f64p(9.5)},
			renames: map[string]string{"unit_price": "price"},
			want:    map[string]any{"price": 9.5},
		},
		{
			name: "dash tag excluded",
			dto:  &samplePatch{Hidden: strp("x")},
			want: map[string]any{},
		},
		{
			name: "non-pointer input yields empty map",
			dto:  samplePatch{Name: strp("soap")},
			want: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UpdatesFromPtrDTO(tt.dto, tt.renames)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("UpdatesFromPtrDTO() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizePtrDTO(t *testing.T) {
	p := samplePatch{Name: strp("  soap  "), UnitPrice: f64p(9.999)}
	NormalizePtrDTO(&p)
	if *p.Name != "soap" {
		t.Errorf("Name = %q, want trimmed", *p.Name)
	}
	if *p.UnitPrice != 10.00 {
		t.Errorf("UnitPrice = %v, want 10", *p.UnitPrice)
	}
	if p.ReorderLevel != nil {
		t.Error("nil field was touched")
	}
}

func TestParseIntDefault(t *testing.T) {
	tests := []struct {
		in   string
		def  int
		want int
	}{
		{"30", 0, 30},
		{" 7 ", 0, 7},
		{"", 30, 30},
		{"abc", 30, 30},
		{"-5", 30, 30},
		{"0", 30, 0},
	}
	for _, tt := range tests {
		if got := ParseIntDefault(tt.in, tt.def); got != tt.want {
			t.Errorf("ParseIntDefault(%q, %d) = %d, want %d", tt.in, tt.def, got, tt.want)
		}
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{9.999, 10},
		{2.344, 2.34},
		{2.346, 2.35},
		{0, 0},
	}
	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.want {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
