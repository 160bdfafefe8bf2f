// Package validation содержит функции валидации входных данных.
package validation

// IsValidPromoCode проверяет формат промокода: 4–16 символов, только заглавные
// латинские буквы и цифры, хотя бы одна буква. Существование кода проверяет бэкенд.
func IsValidPromoCode(code string) bool {
	if len(code) < 4 || len(code) > 16 {
		return false
	}

	hasLetter := false
	for i := 0; i < len(code); i++ {
		ch := code[i]
		switch {
		case ch >= 'A' && ch <= 'Z':
			hasLetter = true
		case ch >= '0' && ch <= '9':
		default:
			return false
		}
	}

	return hasLetter
}
