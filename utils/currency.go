package utils

import (
	"fmt"
	"math"
)

// FormatRupiah memformat nilai ke format Rupiah dengan pemisah ribuan.
// Contoh: 18000 -> "Rp 18.000", 15000.50 -> "Rp 15.000,50"
func FormatRupiah(amount float64) string {
	integer := math.Floor(amount)
	decimal := math.Round((amount-integer)*100) / 100

	integerStr := ""
	intTemp := integer
	if intTemp == 0 {
		integerStr = "0"
	}

	for intTemp > 0 {
		remainder := int(math.Mod(intTemp, 1000))
		if intTemp >= 1000 {
			integerStr = fmt.Sprintf(".%03d%s", remainder, integerStr)
		} else {
			integerStr = fmt.Sprintf("%d%s", remainder, integerStr)
		}
		intTemp = math.Floor(intTemp / 1000)
	}

	if decimal > 0 {
		return fmt.Sprintf("Rp %s,%02.0f", integerStr, decimal*100)
	}
	return fmt.Sprintf("Rp %s", integerStr)
}
