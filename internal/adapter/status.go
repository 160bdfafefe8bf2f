// Package adapter преобразует сырые ответы бэкенда витрины в view-модели.
// Все функции пакета чистые: без I/O, без общего состояния, без паник.
package adapter

import (
	"strings"
	"time"

	"github.com/gvmbt/pvndora-storefront/internal/model"
)

// knownStatuses — закрытое множество статусов заказа.
var knownStatuses = map[model.OrderStatus]struct{}{
	model.OrderStatusPending:   {},
	model.OrderStatusPrepaid:   {},
	model.OrderStatusPartial:   {},
	model.OrderStatusPaid:      {},
	model.OrderStatusDelivered: {},
	model.OrderStatusCancelled: {},
	model.OrderStatusRefunded:  {},
	model.OrderStatusExpired:   {},
	model.OrderStatusFailed:    {},
}

// statusMessages — таблица сообщений по статусам, используется UI дословно.
var statusMessages = map[model.OrderStatus]string{
	model.OrderStatusPending:   "AWAITING_PAYMENT — ожидаем оплату заказа",
	model.OrderStatusPrepaid:   "PAYMENT_CONFIRMED — оплата получена, заказ в обработке",
	model.OrderStatusPartial:   "PARTIALLY_DELIVERED — часть позиций уже выдана",
	model.OrderStatusPaid:      "PAYMENT_CONFIRMED — оплата получена, готовим выдачу",
	model.OrderStatusDelivered: "DELIVERED — заказ выдан полностью",
	model.OrderStatusCancelled: "CANCELLED — заказ отменён",
	model.OrderStatusRefunded:  "REFUNDED — средства возвращены",
	model.OrderStatusExpired:   "EXPIRED — срок оплаты истёк",
	model.OrderStatusFailed:    "FAILED — оплата не прошла",
}

// NormalizeStatus приводит строку статуса бэкенда к закрытому множеству.
// Нераспознанное значение означает самый консервативный статус — pending.
func NormalizeStatus(raw string) model.OrderStatus {
	s := model.OrderStatus(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := knownStatuses[s]; ok {
		return s
	}
	return model.OrderStatusPending
}

// IsPaymentConfirmed сообщает, подтверждена ли оплата для данного статуса.
func IsPaymentConfirmed(s model.OrderStatus) bool {
	switch s {
	case model.OrderStatusPrepaid, model.OrderStatusPaid, model.OrderStatusPartial, model.OrderStatusDelivered:
		return true
	}
	return false
}

// CanCancel сообщает, может ли пользователь отменить заказ.
func CanCancel(s model.OrderStatus) bool {
	return s == model.OrderStatusPending
}

// CanRequestRefund сообщает, открыто ли окно возврата. Отсутствие отметки об
// окончании гарантии трактуется в пользу пользователя.
func CanRequestRefund(s model.OrderStatus, warrantyUntil *time.Time, now time.Time) bool {
	if s != model.OrderStatusDelivered {
		return false
	}
	if warrantyUntil == nil {
		return true
	}
	return now.Before(*warrantyUntil)
}

// StatusMessage возвращает человекочитаемое описание статуса.
func StatusMessage(s model.OrderStatus) string {
	if msg, ok := statusMessages[s]; ok {
		return msg
	}
	return statusMessages[model.OrderStatusPending]
}

// StatusGroup сводит статус к трём вкладкам списка заказов.
func StatusGroup(s model.OrderStatus) model.OrderGroup {
	switch s {
	case model.OrderStatusPaid, model.OrderStatusDelivered:
		return model.OrderGroupPaid
	case model.OrderStatusCancelled, model.OrderStatusRefunded, model.OrderStatusExpired, model.OrderStatusFailed:
		return model.OrderGroupRefunded
	default:
		return model.OrderGroupProcessing
	}
}

// NormalizeItemStatus приводит статус позиции к её собственному множеству.
// Нераспознанное значение означает, что позиция ещё ждёт выдачи.
func NormalizeItemStatus(raw string) model.ItemStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "delivered", "issued", "completed":
		return model.ItemStatusDelivered
	case "cancelled", "canceled", "refunded":
		return model.ItemStatusCancelled
	default:
		return model.ItemStatusWaiting
	}
}
