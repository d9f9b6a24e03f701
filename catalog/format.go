package catalog

import "strconv"

// FormatRupiah renders whole Rupiah with dot grouping, e.g. "Rp 15.000".
func FormatRupiah(amount int64) string {
	sign := ""
	magnitude := uint64(amount)
	if amount < 0 {
		sign = "-"
		magnitude = -magnitude
	}
	digits := strconv.FormatUint(magnitude, 10)
	grouped := make([]byte, 0, len(digits)+len(digits)/3)
	for i := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped = append(grouped, '.')
		}
		grouped = append(grouped, digits[i])
	}
	return sign + "Rp " + string(grouped)
}
