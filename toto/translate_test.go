package toto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslateToEnglish(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Grote Prijs van Nederland - Winnaar race", "Grand Prix van Netherlands - Winner Race"},
		{"Snelste ronde", "Fastest Lap"},
		{"Marge overwinning", "Winning Margin"},
		{"Aantal punten Verstappen", "Total Points Verstappen"},
		{"Hoogst geclassificeerde coureur", "Highest Classified Driver"},
		{"Eerste uitvaller", "First Retirement"},
		{"Winnaar Grote Prijs van Australië", "Winner Grand Prix van Australia"},
		{"Ja", "Yes"},
		// Single-word compounds are not covered by the phrase table
		{"Wereldkampioenschap", "Wereldkampioenschap"},
		{"Verstappen, Max", "Verstappen, Max"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, TranslateToEnglish(tt.input), "input %q", tt.input)
	}
}

func TestFlipCommaName(t *testing.T) {
	assert.Equal(t, "Max Verstappen", FlipCommaName("Verstappen, Max"))
}

func TestFlipCommaNamePreservesOuterWhitespaceAndAccents(t *testing.T) {
	assert.Equal(t, "  Sergio Pérez  ", FlipCommaName("  Pérez, Sergio  "))
}

func TestFlipCommaNameIgnoresMissingParts(t *testing.T) {
	assert.Equal(t, "Ferrari", FlipCommaName("Ferrari"))
	assert.Equal(t, "Ferrari,", FlipCommaName("Ferrari,"))
	assert.Equal(t, ", Mercedes", FlipCommaName(", Mercedes"))
}
