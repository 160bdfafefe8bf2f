package adapter

import "github.com/gvmbt/pvndora-storefront/internal/model"

// AdaptCart преобразует корзину бэкенда в view-модель с параллельными
// итогами: в валюте отображения и в USD. Скидка считается в каждом
// валютном пространстве отдельно, значения никогда не смешиваются.
func AdaptCart(raw model.RawCart) model.CartData {
	items := make([]model.CartItem, 0, len(raw.Items))
	for _, it := range raw.Items {
		qty := it.Quantity
		if qty <= 0 {
			qty = 1
		}
		items = append(items, model.CartItem{
			ID:          it.ID,
			ProductName: it.ProductName,
			Price:       it.Price,
			PriceUSD:    it.PriceUSD,
			Quantity:    qty,
		})
	}

	cart := model.CartData{
		Items:            items,
		Total:            raw.Total,
		TotalUSD:         raw.TotalUSD,
		OriginalTotal:    raw.OriginalTotal,
		OriginalTotalUSD: raw.OriginalTotalUSD,
		DiscountTotal:    raw.OriginalTotal - raw.Total,
		DiscountTotalUSD: raw.OriginalTotalUSD - raw.TotalUSD,
		Currency:         firstNonEmpty(raw.Currency, "USD"),
		ExchangeRate:     raw.ExchangeRate,
	}

	if cart.DiscountTotal < 0 {
		cart.DiscountTotal = 0
	}
	if cart.DiscountTotalUSD < 0 {
		cart.DiscountTotalUSD = 0
	}

	if raw.PromoCode != nil {
		cart.PromoCode = *raw.PromoCode
	}
	if raw.PromoDiscountPercent != nil {
		cart.PromoDiscountPercent = *raw.PromoDiscountPercent
	}

	return cart
}

// CanPayWithBalance решает, покрывает ли баланс пользователя корзину.
// Сравнение идёт строго по USD-паре: значения в валюте отображения могут
// отличаться на порядки и для этого решения непригодны.
func CanPayWithBalance(cart model.CartData, balanceUSD float64) bool {
	return cart.TotalUSD <= balanceUSD
}
