package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueUndefined(t *testing.T) {
	tests := []struct {
		name      string
		value     Value
		undefined bool
	}{
		{"undefined float", Undefined(KindFloat), true},
		{"undefined int", Undefined(KindInt), true},
		{"undefined string", Undefined(KindString), true},
		{"zero float is defined", Float(0), false},
		{"zero int is defined", Int(0), false},
		{"non-empty string", String("Std. Shale"), false},
		{"zero value has no kind", Value{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.undefined, tt.value.IsUndefined())
		})
	}
}

func TestValueConvert(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		to   Kind
		want Value
		ok   bool
	}{
		{"int to float", Int(3), KindFloat, Float(3), true},
		{"integral float to int", Float(4), KindInt, Int(4), true},
		{"fractional float to int", Float(4.5), KindInt, Value{}, false},
		{"string to float", String("2.5"), KindFloat, Float(2.5), true},
		{"bad string to float", String("abc"), KindFloat, Value{}, false},
		{"float to string", Float(2.5), KindString, String("2.5"), true},
		{"same kind", String("x"), KindString, String("x"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.in.Convert(tt.to)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValueAccessors(t *testing.T) {
	assert.Equal(t, UndefinedFloat, Int(UndefinedInt).AsFloat())
	assert.Equal(t, 7.0, Int(7).AsFloat())
	assert.Equal(t, int64(7), Float(7.9).AsInt())
	assert.Equal(t, UndefinedFloat, String("x").AsFloat())
	assert.Equal(t, "7", Int(7).AsString())
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{KindFloat, KindInt, KindString} {
		got, ok := ParseKind(k.String())
		assert.True(t, ok)
		assert.Equal(t, k, got)
	}
	_, ok := ParseKind("blob")
	assert.False(t, ok)
}
