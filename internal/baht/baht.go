// Package baht spells amounts out in Thai currency words, matching the
// BAHTTEXT convention used on official purchase documents.
package baht

import (
	"strings"

	"github.com/shopspring/decimal"
)

var digitWords = [10]string{"ศูนย์", "หนึ่ง", "สอง", "สาม", "สี่", "ห้า", "หก", "เจ็ด", "แปด", "เก้า"}

var placeWords = [6]string{"", "สิบ", "ร้อย", "พัน", "หมื่น", "แสน"}

// Text renders an amount in Thai words, e.g. 267.50 →
// "สองร้อยหกสิบเจ็ดบาทห้าสิบสตางค์". Amounts are rounded to satang first.
func Text(amount decimal.Decimal) string {
	amount = amount.Round(2)

	var b strings.Builder
	if amount.IsNegative() {
		b.WriteString("ลบ")
		amount = amount.Neg()
	}

	bahtPart := amount.Truncate(0)
	satang := amount.Sub(bahtPart).Mul(decimal.NewFromInt(100)).IntPart()

	bahtDigits := bahtPart.String()
	if bahtPart.IsZero() && satang > 0 {
		writeSatang(&b, satang)
		return b.String()
	}

	b.WriteString(integerText(bahtDigits))
	b.WriteString("บาท")
	if satang == 0 {
		b.WriteString("ถ้วน")
	} else {
		writeSatang(&b, satang)
	}
	return b.String()
}

func writeSatang(b *strings.Builder, satang int64) {
	b.WriteString(groupText(satang, false))
	b.WriteString("สตางค์")
}

// integerText reads a non-negative decimal digit string, grouping by
// millions: each six-digit group is read on its own and groups are joined
// with ล้าน.
func integerText(digits string) string {
	if digits == "0" {
		return digitWords[0]
	}

	var groups []int64
	for len(digits) > 0 {
		cut := len(digits) - 6
		if cut < 0 {
			cut = 0
		}
		var n int64
		for _, ch := range digits[cut:] {
			n = n*10 + int64(ch-'0')
		}
		groups = append([]int64{n}, groups...)
		digits = digits[:cut]
	}

	var b strings.Builder
	for i, g := range groups {
		if g == 0 && i > 0 {
			// A zero middle group still contributes its ล้าน marker
			// via the preceding group's suffix below.
			continue
		}
		b.WriteString(groupText(g, i > 0))
		// Every group but the last is in a millions place.
		b.WriteString(strings.Repeat("ล้าน", len(groups)-1-i))
	}
	return b.String()
}

// groupText reads a value in [0, 999999]. hasHigher reports whether a
// more significant group precedes this one, which turns a trailing หนึ่ง
// into เอ็ด.
func groupText(n int64, hasHigher bool) string {
	if n == 0 {
		return ""
	}

	var b strings.Builder
	for place := 5; place >= 0; place-- {
		pow := int64(1)
		for i := 0; i < place; i++ {
			pow *= 10
		}
		d := n / pow % 10
		if d == 0 {
			continue
		}
		switch {
		case place == 1 && d == 1:
			b.WriteString("สิบ")
		case place == 1 && d == 2:
			b.WriteString("ยี่สิบ")
		case place == 0 && d == 1 && (n > 9 || hasHigher):
			b.WriteString("เอ็ด")
		default:
			b.WriteString(digitWords[d])
			b.WriteString(placeWords[place])
		}
	}
	return b.String()
}
