package adapter

import (
	"strings"
	"time"

	"github.com/gvmbt/pvndora-storefront/internal/model"
)

// deadlineLayout — формат сроков в карточке заказа.
const deadlineLayout = "02.01.2006 15:04"

// AdaptOrder преобразует сырой заказ бэкенда в view-модель. Легаси-заказы без
// списка позиций сводятся к одной синтетической позиции, чтобы дальше по
// коду форма заказа была единственной. now нужен только для окна возврата.
func AdaptOrder(raw model.RawOrder, fallbackCurrency string, now time.Time) model.Order {
	status := NormalizeStatus(raw.Status)

	currency := strings.TrimSpace(raw.Currency)
	if currency == "" {
		currency = fallbackCurrency
	}

	createdAt, _ := ParseDate(raw.CreatedAt)

	var warranty *time.Time
	if t, ok := parseDatePtr(raw.WarrantyUntil); ok {
		warranty = &t
	}

	order := model.Order{
		ID:               raw.ID,
		DisplayID:        ShortDisplayID(raw.ID),
		CreatedAt:        createdAt,
		Amount:           raw.Amount,
		AmountUSD:        raw.AmountUSD,
		Currency:         currency,
		RawStatus:        status,
		Status:           StatusGroup(status),
		StatusMessage:    StatusMessage(status),
		PaymentConfirmed: IsPaymentConfirmed(status),
		CanCancel:        CanCancel(status),
		CanRequestRefund: CanRequestRefund(status, warranty, now),
	}

	if raw.PaymentURL != nil {
		order.PaymentURL = *raw.PaymentURL
	}

	rawItems := raw.Items
	if len(rawItems) == 0 {
		rawItems = []model.RawOrderItem{legacyItem(raw)}
	}

	order.Items = make([]model.OrderItem, 0, len(rawItems))
	for _, it := range rawItems {
		order.Items = append(order.Items, adaptItem(it, raw, status))
	}

	return order
}

// legacyItem синтезирует единственную позицию из легаси-заказа с товаром
// на уровне самого заказа.
func legacyItem(raw model.RawOrder) model.RawOrderItem {
	name := ""
	if raw.ProductName != nil {
		name = *raw.ProductName
	}
	return model.RawOrderItem{
		ID:          raw.ID,
		ProductName: name,
		Fulfillment: "instant",
		Status:      raw.Status,
	}
}

func adaptItem(raw model.RawOrderItem, order model.RawOrder, orderStatus model.OrderStatus) model.OrderItem {
	item := model.OrderItem{
		ID:          raw.ID,
		ProductName: raw.ProductName,
		Fulfillment: raw.Fulfillment,
		Status:      NormalizeItemStatus(raw.Status),
		HasReview:   raw.HasReview,
	}

	if raw.Content != nil {
		item.Content = *raw.Content
	}
	if raw.Instructions != nil {
		item.Instructions = *raw.Instructions
	}
	if t, ok := parseDatePtr(raw.ExpiresAt); ok {
		item.ExpiresAt = t.Format(deadlineLayout)
	}

	item.Deadline = itemDeadline(order, orderStatus, item.Status)

	return item
}

// itemDeadline выбирает, какой срок показывать у позиции. Пока заказ не
// оплачен — срок оплаты; после оплаты, но до выдачи — срок поставки, если
// бэкенд его назвал. Пустая строка у ожидающей позиции намеренна: UI в этом
// случае пишет «ждём поступления» без даты.
func itemDeadline(order model.RawOrder, orderStatus model.OrderStatus, itemStatus model.ItemStatus) string {
	if itemStatus != model.ItemStatusWaiting {
		return ""
	}

	if !IsPaymentConfirmed(orderStatus) {
		if orderStatus != model.OrderStatusPending {
			return ""
		}
		if t, ok := parseDatePtr(order.PaymentDeadline); ok {
			return t.Format(deadlineLayout)
		}
		return ""
	}

	if t, ok := parseDatePtr(order.FulfillmentDeadline); ok {
		return t.Format(deadlineLayout)
	}
	return ""
}

// ShortDisplayID строит короткий идентификатор для UI из полного: дефисы
// отбрасываются, берутся первые восемь символов в верхнем регистре.
func ShortDisplayID(id string) string {
	compact := strings.ReplaceAll(id, "-", "")
	if len(compact) > 8 {
		compact = compact[:8]
	}
	return strings.ToUpper(compact)
}
