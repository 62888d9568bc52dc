package service

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrInvalidAmount 金额格式非法或不为正数
var ErrInvalidAmount = errors.New("金额格式错误，应为最多两位小数的正数")

// 金额输入格式：整数部分 + 可选的 1~2 位小数，小数点允许用逗号
var amountPattern = regexp.MustCompile(`^\d+(?:[.,]\d{1,2})?$`)

// ParseAmountMinor 解析用户输入的金额字符串为最小货币单位整数
// "12.34" -> 1234，"12" -> 1200，"12.345" 和非正数返回错误
func ParseAmountMinor(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if !amountPattern.MatchString(s) {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")

	intPart, fracPart, _ := strings.Cut(s, ".")
	for len(fracPart) < 2 {
		fracPart += "0"
	}

	whole, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	frac, err := strconv.ParseInt(fracPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// 防止溢出：int64 上限约 9.2e18
	if whole > (math.MaxInt64-99)/100 {
		return 0, ErrInvalidAmount
	}

	minor := whole*100 + frac
	if minor <= 0 {
		return 0, ErrInvalidAmount
	}
	return minor, nil
}

// FractionDigits 返回币种最小单位的小数位数
func FractionDigits(code string) int {
	switch code {
	case "JPY", "KRW":
		return 0
	case "BHD", "JOD", "KWD":
		return 3
	default:
		return 2
	}
}

// FormatAmountMinor 按币种格式化最小单位金额为展示字符串
// 未知/非法币种不报错，回退为 "<币种代码> <金额>" 形式
func FormatAmountMinor(minor int64, code string) string {
	digits := FractionDigits(code)

	unit, err := currency.ParseISO(code)
	if err != nil {
		return fmt.Sprintf("%s %s", code, plainAmount(minor, digits))
	}

	major := float64(minor) / math.Pow10(digits)
	p := message.NewPrinter(language.English)
	return p.Sprintf("%v", currency.Symbol(unit.Amount(major)))
}

// plainAmount 不带千分位的纯数字金额串，用于币种回退展示
func plainAmount(minor int64, digits int) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	if digits == 0 {
		return sign + strconv.FormatInt(minor, 10)
	}
	pow := int64(math.Pow10(digits))
	return fmt.Sprintf("%s%d.%0*d", sign, minor/pow, digits, minor%pow)
}
