package adapter

import (
	"reflect"
	"testing"
	"time"

	"github.com/gvmbt/pvndora-storefront/internal/model"
)

func strPtr(s string) *string { return &s }

func testNow() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func TestAdaptOrder_Idempotent(t *testing.T) {
	raw := model.RawOrder{
		ID:              "3f2b8c1a-77aa-4f10-9c3d-000011112222",
		CreatedAt:       "2025-05-20T10:00:00Z",
		Amount:          4500,
		AmountUSD:       50,
		Currency:        "RUB",
		Status:          "pending",
		PaymentDeadline: strPtr("2025-06-02T10:00:00Z"),
		Items: []model.RawOrderItem{
			{ID: "item-1", ProductName: "GPT key", Fulfillment: "instant", Status: "waiting"},
		},
	}

	first := AdaptOrder(raw, "USD", testNow())
	second := AdaptOrder(raw, "USD", testNow())

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("AdaptOrder is not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestAdaptOrder_LegacySingleItem(t *testing.T) {
	raw := model.RawOrder{
		ID:          "legacy-42",
		Status:      "delivered",
		ProductName: strPtr("Midjourney subscription"),
	}

	order := AdaptOrder(raw, "USD", testNow())

	if len(order.Items) != 1 {
		t.Fatalf("legacy order must synthesize exactly one item, got %d", len(order.Items))
	}
	item := order.Items[0]
	if item.ProductName != "Midjourney subscription" {
		t.Fatalf("item name = %q", item.ProductName)
	}
	if item.Status != model.ItemStatusDelivered {
		t.Fatalf("item status = %q, want delivered", item.Status)
	}
}

func TestAdaptOrder_DeadlinePriority(t *testing.T) {
	base := model.RawOrder{
		ID:                  "order-1",
		PaymentDeadline:     strPtr("2025-06-02T10:00:00Z"),
		FulfillmentDeadline: strPtr("2025-06-05T10:00:00Z"),
		Items: []model.RawOrderItem{
			{ID: "item-1", ProductName: "key", Status: "waiting"},
		},
	}

	tests := []struct {
		name        string
		orderStatus string
		itemStatus  string
		noFulfill   bool
		want        string
	}{
		{
			name:        "unpaid shows payment deadline",
			orderStatus: "pending",
			itemStatus:  "waiting",
			want:        "02.06.2025 10:00",
		},
		{
			name:        "paid but waiting shows fulfillment deadline",
			orderStatus: "paid",
			itemStatus:  "waiting",
			want:        "05.06.2025 10:00",
		},
		{
			name:        "paid waiting without fulfillment deadline shows nothing",
			orderStatus: "paid",
			itemStatus:  "waiting",
			noFulfill:   true,
			want:        "",
		},
		{
			name:        "delivered item shows nothing",
			orderStatus: "delivered",
			itemStatus:  "delivered",
			want:        "",
		},
		{
			name:        "cancelled order shows nothing",
			orderStatus: "cancelled",
			itemStatus:  "waiting",
			want:        "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := base
			raw.Status = tt.orderStatus
			raw.Items = []model.RawOrderItem{
				{ID: "item-1", ProductName: "key", Status: tt.itemStatus},
			}
			if tt.noFulfill {
				raw.FulfillmentDeadline = nil
			}

			order := AdaptOrder(raw, "USD", testNow())
			if got := order.Items[0].Deadline; got != tt.want {
				t.Fatalf("deadline = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAdaptOrder_MalformedDatesDoNotFail(t *testing.T) {
	raw := model.RawOrder{
		ID:              "order-bad-dates",
		CreatedAt:       "not-a-date",
		Status:          "pending",
		PaymentDeadline: strPtr("yesterday-ish"),
		WarrantyUntil:   strPtr("©2025"),
		Items: []model.RawOrderItem{
			{ID: "item-1", Status: "waiting", ExpiresAt: strPtr("soon")},
		},
	}

	order := AdaptOrder(raw, "USD", testNow())

	if !order.CreatedAt.IsZero() {
		t.Fatalf("unparseable created_at must produce zero time")
	}
	if order.Items[0].Deadline != "" {
		t.Fatalf("unparseable deadline must render empty, got %q", order.Items[0].Deadline)
	}
	if order.Items[0].ExpiresAt != "" {
		t.Fatalf("unparseable expiry must render empty, got %q", order.Items[0].ExpiresAt)
	}
}

func TestAdaptOrder_CurrencyFallback(t *testing.T) {
	order := AdaptOrder(model.RawOrder{ID: "o", Status: "paid"}, "USD", testNow())
	if order.Currency != "USD" {
		t.Fatalf("currency = %q, want fallback USD", order.Currency)
	}
}

func TestShortDisplayID(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"3f2b8c1a-77aa-4f10-9c3d-000011112222", "3F2B8C1A"},
		{"abc", "ABC"},
		{"", ""},
		{"12345678", "12345678"},
	}

	for _, tt := range tests {
		if got := ShortDisplayID(tt.id); got != tt.want {
			t.Fatalf("ShortDisplayID(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestParseDate_Layouts(t *testing.T) {
	tests := []struct {
		raw string
		ok  bool
	}{
		{"2025-06-01T10:00:00Z", true},
		{"2025-06-01T10:00:00.123456Z", true},
		{"2025-06-01T10:00:00", true},
		{"2025-06-01 10:00:00", true},
		{"2025-06-01", true},
		{"01.06.2025", false},
		{"", false},
	}

	for _, tt := range tests {
		if _, ok := ParseDate(tt.raw); ok != tt.ok {
			t.Fatalf("ParseDate(%q) ok = %v, want %v", tt.raw, ok, tt.ok)
		}
	}
}
