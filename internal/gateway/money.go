package gateway

import "github.com/shopspring/decimal"

// RupeesToPaise converts a rupee amount to the gateway's minor unit.
func RupeesToPaise(rupees float64) int64 {
	return decimal.NewFromFloat(rupees).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// PaiseToRupees converts a gateway minor-unit amount back to rupees.
func PaiseToRupees(paise int64) float64 {
	value, _ := decimal.NewFromInt(paise).Div(decimal.NewFromInt(100)).Round(2).Float64()
	return value
}
