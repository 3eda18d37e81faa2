package arabic

import "strings"

var toEnglish = strings.NewReplacer(
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
	// Extended (Persian) forms show up from some mobile keyboards.
	"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4",
	"۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
	"٫", ".", "٬", ",",
)

var toArabic = strings.NewReplacer(
	"0", "٠", "1", "١", "2", "٢", "3", "٣", "4", "٤",
	"5", "٥", "6", "٦", "7", "٧", "8", "٨", "9", "٩",
)

// ToEnglishDigits rewrites Arabic-Indic digits as ASCII digits.
func ToEnglishDigits(s string) string {
	return toEnglish.Replace(s)
}

// ToArabicDigits rewrites ASCII digits as Arabic-Indic digits. Separators
// are left untouched.
func ToArabicDigits(s string) string {
	return toArabic.Replace(s)
}
