package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyFromDecimal(t *testing.T) {
	price, err := MoneyFromDecimal(decimal.RequireFromString("19.99"))
	require.NoError(t, err)
	assert.Equal(t, Money(1999), price)

	whole, err := MoneyFromDecimal(decimal.RequireFromString("25"))
	require.NoError(t, err)
	assert.Equal(t, Money(2500), whole)
}

func TestMoneyFromDecimalRejectsSubCent(t *testing.T) {
	_, err := MoneyFromDecimal(decimal.RequireFromString("19.999"))
	assert.Error(t, err)
}

func TestMoneyArithmeticIsExact(t *testing.T) {
	// The classic float trap: 0.1 + 0.2. In minor units it is exact.
	a := Money(10)
	b := Money(20)
	assert.Equal(t, Money(30), a+b)

	price := Money(1999)
	assert.Equal(t, Money(5997), price.Mul(3))
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(Money(1999))
	require.NoError(t, err)
	assert.Equal(t, "19.99", string(data))

	var decoded Money
	require.NoError(t, json.Unmarshal([]byte("19.99"), &decoded))
	assert.Equal(t, Money(1999), decoded)

	require.NoError(t, json.Unmarshal([]byte(`"42.50"`), &decoded))
	assert.Equal(t, Money(4250), decoded)
}

func TestMoneyString(t *testing.T) {
	assert.Equal(t, "0.05", Money(5).String())
	assert.Equal(t, "100.00", Money(10000).String())
}
