// Package money converts between decimal amount strings and int64 minor
// units. Marketplace balances are tracked at 8 decimal places, so one whole
// WETH/ETH is 1e8 minor units.
package money

import (
	"errors"
	"strconv"
	"strings"
)

const Decimals = 8

const unit = int64(100000000)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrTooManyDecimals = errors.New("amount has too many decimal places")
	ErrAmountTooLarge  = errors.New("amount too large")
)

func ParseMinor(input string) (int64, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return 0, ErrInvalidAmount
	}
	sign := int64(1)
	switch trimmed[0] {
	case '-':
		sign = -1
		trimmed = trimmed[1:]
	case '+':
		trimmed = trimmed[1:]
	}
	parts := strings.SplitN(trimmed, ".", 2)
	wholePart := parts[0]
	if wholePart == "" {
		wholePart = "0"
	}
	if !isDigits(wholePart) {
		return 0, ErrInvalidAmount
	}
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if len(fracPart) > Decimals {
		return 0, ErrTooManyDecimals
	}
	if fracPart != "" && !isDigits(fracPart) {
		return 0, ErrInvalidAmount
	}
	whole, err := strconv.ParseInt(wholePart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if whole > (1<<62)/unit {
		return 0, ErrAmountTooLarge
	}
	frac := int64(0)
	if fracPart != "" {
		padded := fracPart + strings.Repeat("0", Decimals-len(fracPart))
		frac, err = strconv.ParseInt(padded, 10, 64)
		if err != nil {
			return 0, ErrInvalidAmount
		}
	}
	return sign * (whole*unit + frac), nil
}

// FormatMinor renders minor units as a decimal string with trailing zeros
// trimmed, so 10000000 prints as "0.1" and 200000000 as "2".
func FormatMinor(value int64) string {
	negative := value < 0
	if negative {
		value = -value
	}
	whole := value / unit
	frac := value % unit
	formatted := strconv.FormatInt(whole, 10)
	if frac != 0 {
		fracStr := strings.TrimRight(leftPad(strconv.FormatInt(frac, 10), Decimals), "0")
		formatted += "." + fracStr
	}
	if negative {
		return "-" + formatted
	}
	return formatted
}

func ValueToInt64(value any) int64 {
	switch v := value.(type) {
	case nil:
		return 0
	case int64:
		return v
	case int32:
		return int64(v)
	case int:
		return int64(v)
	case []byte:
		parsed, _ := strconv.ParseInt(string(v), 10, 64)
		return parsed
	case string:
		parsed, _ := strconv.ParseInt(v, 10, 64)
		return parsed
	default:
		return 0
	}
}

func isDigits(value string) bool {
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(value) > 0
}

func leftPad(value string, width int) string {
	for len(value) < width {
		value = "0" + value
	}
	return value
}
