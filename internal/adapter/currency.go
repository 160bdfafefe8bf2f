package adapter

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var (
	printerRU = message.NewPrinter(language.Russian)
	printerEN = message.NewPrinter(language.English)
)

// FormatMoney форматирует сумму для отображения: русская группировка разрядов
// и знак рубля для RUB, доллар префиксом для USD, иначе код валюты суффиксом.
// Значение не округляется для дальнейших расчётов — только для показа.
func FormatMoney(amount float64, currency string) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}

	code := strings.ToUpper(strings.TrimSpace(currency))
	if code == "" {
		code = "USD"
	}

	digits := number.Decimal(amount, number.MaxFractionDigits(2))

	switch code {
	case "RUB":
		return printerRU.Sprintf("%v ₽", digits)
	case "USD":
		return printerEN.Sprintf("$%v", digits)
	default:
		return printerEN.Sprintf("%v %s", digits, code)
	}
}
