package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "railhub/pkg/domain-errors"
)

func TestParseMinorUnits(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency string
		want     int64
		wantErr  bool
	}{
		{name: "two digit currency", amount: "2000.00", currency: "USD", want: 200000},
		{name: "implicit fraction", amount: "15", currency: "EUR", want: 1500},
		{name: "single fraction digit", amount: "0.5", currency: "EUR", want: 50},
		{name: "zero digit currency", amount: "1200", currency: "JPY", want: 1200},
		{name: "three digit currency", amount: "3.250", currency: "KWD", want: 3250},
		{name: "negative rejected", amount: "-1.00", currency: "USD", wantErr: true},
		{name: "too many fraction digits", amount: "1.001", currency: "USD", wantErr: true},
		{name: "fraction on zero digit currency", amount: "1.5", currency: "JPY", wantErr: true},
		{name: "empty rejected", amount: "", currency: "USD", wantErr: true},
		{name: "garbage rejected", amount: "twelve", currency: "USD", wantErr: true},
		{name: "lone dot rejected", amount: ".", currency: "USD", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMinorUnits(tt.amount, tt.currency)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatMinorUnits(t *testing.T) {
	assert.Equal(t, "2000.00", FormatMinorUnits(200000, "USD"))
	assert.Equal(t, "0.05", FormatMinorUnits(5, "EUR"))
	assert.Equal(t, "1200", FormatMinorUnits(1200, "JPY"))
	assert.Equal(t, "3.250", FormatMinorUnits(3250, "KWD"))
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, amount := range []string{"0.01", "19.99", "100000.00"} {
		units, err := ParseMinorUnits(amount, "EUR")
		require.NoError(t, err)
		assert.Equal(t, amount, FormatMinorUnits(units, "EUR"))
	}
}
