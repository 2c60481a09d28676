package transport

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney_MarshalJSON(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"25.5", `"25.50"`},
		{"10", `"10.00"`},
		{"0", `"0.00"`},
		{"3.005", `"3.01"`},
		{"1234.567", `"1234.57"`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			b, err := json.Marshal(NewMoney(decimal.RequireFromString(tt.in)))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(b))
		})
	}
}

func TestMoney_InResponses(t *testing.T) {
	resp := CartResponse{
		Items: []CartLine{},
		Total: NewMoney(decimal.RequireFromString("25.5")),
	}
	b, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"total":"25.50"}`, string(b))

	var back CartResponse
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, back.Total.Equal(decimal.RequireFromString("25.5")))
}

func TestMoney_Add(t *testing.T) {
	sum := NewMoney(decimal.RequireFromString("0.10")).Add(NewMoney(decimal.RequireFromString("0.20")))
	assert.Equal(t, "0.30", sum.StringFixed(2))
}
