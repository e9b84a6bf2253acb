package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "FALSO", "falso"},
		{"trim", "  caridad  ", "caridad"},
		{"accents", "oración", "oracion"},
		{"mixed accents and case", "La Oración es el ALIENTO", "la oracion es el aliento"},
		{"collapse whitespace", "vende   lo que\ttienes", "vende lo que tienes"},
		{"enye decomposes", "señal", "senal"},
		{"empty", "", ""},
		{"only spaces", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}
