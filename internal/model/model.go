// Package model содержит типы сырых ответов бэкенда витрины и view-модели,
// которые отдаются мини-приложению.
package model

import "time"

// TelegramUser описывает личность пользователя из initData Telegram WebApp.
type TelegramUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	PhotoURL  string `json:"photo_url"`
	IsPremium bool   `json:"is_premium"`
}

// RawOrderItem описывает одну позицию заказа в ответе бэкенда.
type RawOrderItem struct {
	ID           string  `json:"id"`
	ProductName  string  `json:"product_name"`
	Fulfillment  string  `json:"fulfillment"`
	Status       string  `json:"status"`
	Content      *string `json:"content,omitempty"`
	Instructions *string `json:"instructions,omitempty"`
	ExpiresAt    *string `json:"expires_at,omitempty"`
	HasReview    bool    `json:"has_review"`
}

// RawOrder описывает заказ в ответе бэкенда. Поле Items отсутствует у
// легаси-заказов: они несут единственный товар прямо в ProductName.
type RawOrder struct {
	ID                  string         `json:"id"`
	CreatedAt           string         `json:"created_at"`
	Amount              float64        `json:"amount"`
	AmountUSD           float64        `json:"amount_usd"`
	Currency            string         `json:"currency"`
	Status              string         `json:"status"`
	PaymentDeadline     *string        `json:"payment_deadline,omitempty"`
	FulfillmentDeadline *string        `json:"fulfillment_deadline,omitempty"`
	WarrantyUntil       *string        `json:"warranty_until,omitempty"`
	Items               []RawOrderItem `json:"items,omitempty"`
	ProductName         *string        `json:"product_name,omitempty"`
	PaymentURL          *string        `json:"payment_url,omitempty"`
}

// RawReferralProgram содержит параметры реферальной программы пользователя.
type RawReferralProgram struct {
	Level2ThresholdUSD   *float64 `json:"level2_threshold_usd,omitempty"`
	Level3ThresholdUSD   *float64 `json:"level3_threshold_usd,omitempty"`
	EffectiveLevel       *int     `json:"effective_level,omitempty"`
	NextThresholdDisplay *float64 `json:"next_threshold_display,omitempty"`
	IsPartner            bool     `json:"is_partner"`
}

// RawReferralStats содержит счётчики реферальной сети пользователя.
type RawReferralStats struct {
	InvitedTotal  int     `json:"invited_total"`
	InvitedActive int     `json:"invited_active"`
	TurnoverUSD   float64 `json:"turnover_usd"`
	ReferralCode  string  `json:"referral_code"`
}

// RawBalanceTransaction описывает операцию по балансу в текущем формате бэкенда.
type RawBalanceTransaction struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	CreatedAt string  `json:"created_at"`
	Comment   *string `json:"comment,omitempty"`
}

// RawBonusRecord описывает начисление реферального бонуса в легаси-формате.
type RawBonusRecord struct {
	ID        string  `json:"id"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	FromUser  *string `json:"from_user,omitempty"`
	CreatedAt string  `json:"created_at"`
}

// RawWithdrawal описывает заявку на вывод средств в легаси-формате.
type RawWithdrawal struct {
	ID        string  `json:"id"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at"`
}

// RawProfile описывает профиль пользователя со всеми историями операций.
type RawProfile struct {
	UserID       int64                   `json:"user_id"`
	FirstName    *string                 `json:"first_name,omitempty"`
	Username     *string                 `json:"username,omitempty"`
	PhotoURL     *string                 `json:"photo_url,omitempty"`
	Balance      float64                 `json:"balance"`
	BalanceUSD   float64                 `json:"balance_usd"`
	Currency     string                  `json:"currency"`
	Program      *RawReferralProgram     `json:"referral_program,omitempty"`
	Stats        *RawReferralStats       `json:"referral_stats,omitempty"`
	Transactions []RawBalanceTransaction `json:"transactions,omitempty"`
	Bonuses      []RawBonusRecord        `json:"bonuses,omitempty"`
	Withdrawals  []RawWithdrawal         `json:"withdrawals,omitempty"`
}

// RawLeaderboardEntry описывает одну строку страницы рейтинга.
type RawLeaderboardEntry struct {
	Rank        int     `json:"rank"`
	Name        *string `json:"name,omitempty"`
	Username    *string `json:"username,omitempty"`
	PhotoURL    *string `json:"photo_url,omitempty"`
	SavedAmount float64 `json:"saved_amount"`
	IsMe        bool    `json:"is_me"`
}

// RawLeaderboard описывает страницу рейтинга. MyRank и MySaved заполняются,
// когда текущий пользователь не попал в выборку страницы.
type RawLeaderboard struct {
	Entries  []RawLeaderboardEntry `json:"entries"`
	Currency string                `json:"currency"`
	MyRank   *int                  `json:"my_rank,omitempty"`
	MySaved  *float64              `json:"my_saved,omitempty"`
}

// RawCartItem описывает позицию корзины в ответе бэкенда.
type RawCartItem struct {
	ID          string  `json:"id"`
	ProductName string  `json:"product_name"`
	Price       float64 `json:"price"`
	PriceUSD    float64 `json:"price_usd"`
	Quantity    int     `json:"quantity"`
}

// RawCart описывает корзину с итогами в валюте отображения и в USD.
type RawCart struct {
	Items                []RawCartItem `json:"items"`
	Total                float64       `json:"total"`
	TotalUSD             float64       `json:"total_usd"`
	OriginalTotal        float64       `json:"original_total"`
	OriginalTotalUSD     float64       `json:"original_total_usd"`
	Currency             string        `json:"currency"`
	ExchangeRate         float64       `json:"exchange_rate"`
	PromoCode            *string       `json:"promo_code,omitempty"`
	PromoDiscountPercent *float64      `json:"promo_discount_percent,omitempty"`
}

// OrderStatus описывает нормализованный статус заказа. Множество закрытое:
// любое нераспознанное значение бэкенда приводится к OrderStatusPending.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPrepaid   OrderStatus = "prepaid"
	OrderStatusPartial   OrderStatus = "partial"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusRefunded  OrderStatus = "refunded"
	OrderStatusExpired   OrderStatus = "expired"
	OrderStatusFailed    OrderStatus = "failed"
)

// OrderGroup описывает упрощённый статус для группировки заказов по вкладкам.
type OrderGroup string

const (
	OrderGroupProcessing OrderGroup = "processing"
	OrderGroupPaid       OrderGroup = "paid"
	OrderGroupRefunded   OrderGroup = "refunded"
)

// ItemStatus описывает статус позиции заказа, отдельное множество от OrderStatus.
type ItemStatus string

const (
	ItemStatusDelivered ItemStatus = "delivered"
	ItemStatusWaiting   ItemStatus = "waiting"
	ItemStatusCancelled ItemStatus = "cancelled"
)

// OrderItem — view-модель позиции заказа.
type OrderItem struct {
	ID           string     `json:"id"`
	ProductName  string     `json:"productName"`
	Fulfillment  string     `json:"fulfillment"`
	Status       ItemStatus `json:"status"`
	Content      string     `json:"content,omitempty"`
	Instructions string     `json:"instructions,omitempty"`
	Deadline     string     `json:"deadline,omitempty"`
	ExpiresAt    string     `json:"expiresAt,omitempty"`
	HasReview    bool       `json:"hasReview"`
}

// Order — view-модель заказа со всеми производными полями.
type Order struct {
	ID               string      `json:"id"`
	DisplayID        string      `json:"displayId"`
	CreatedAt        time.Time   `json:"createdAt"`
	Amount           float64     `json:"amount"`
	AmountUSD        float64     `json:"amountUsd"`
	Currency         string      `json:"currency"`
	RawStatus        OrderStatus `json:"rawStatus"`
	Status           OrderGroup  `json:"status"`
	StatusMessage    string      `json:"statusMessage"`
	PaymentConfirmed bool        `json:"paymentConfirmed"`
	CanCancel        bool        `json:"canCancel"`
	CanRequestRefund bool        `json:"canRequestRefund"`
	PaymentURL       string      `json:"paymentUrl,omitempty"`
	Items            []OrderItem `json:"items"`
}

// CareerLevel описывает уровень карьерной лестницы реферальной программы.
type CareerLevel struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	FloorUSD float64 `json:"floorUsd"`
}

// BillingDirection описывает направление операции в объединённой истории.
type BillingDirection string

const (
	BillingIncome  BillingDirection = "INCOME"
	BillingOutcome BillingDirection = "OUTCOME"
	BillingSystem  BillingDirection = "SYSTEM"
)

// BillingEntry — одна строка объединённой истории операций профиля.
type BillingEntry struct {
	ID        string           `json:"id"`
	Source    string           `json:"source"`
	Direction BillingDirection `json:"direction"`
	Label     string           `json:"label"`
	Amount    float64          `json:"amount"`
	Currency  string           `json:"currency"`
	Date      time.Time        `json:"date"`
}

// PendingWithdrawal — заявка на вывод, средства по которой зарезервированы.
type PendingWithdrawal struct {
	ID       string    `json:"id"`
	Amount   float64   `json:"amount"`
	Currency string    `json:"currency"`
	Date     time.Time `json:"date"`
}

// ProfileData — view-модель профиля с уровнем, прогрессом и историей операций.
type ProfileData struct {
	UserID             int64               `json:"userId"`
	Name               string              `json:"name"`
	Handle             string              `json:"handle"`
	PhotoURL           string              `json:"photoUrl"`
	Balance            float64             `json:"balance"`
	BalanceUSD         float64             `json:"balanceUsd"`
	Currency           string              `json:"currency"`
	Level              CareerLevel         `json:"level"`
	NextLevel          *CareerLevel        `json:"nextLevel,omitempty"`
	ProgressPercent    float64             `json:"progressPercent"`
	InvitedTotal       int                 `json:"invitedTotal"`
	InvitedActive      int                 `json:"invitedActive"`
	TurnoverUSD        float64             `json:"turnoverUsd"`
	ReferralCode       string              `json:"referralCode"`
	Billing            []BillingEntry      `json:"billing"`
	PendingWithdrawals []PendingWithdrawal `json:"pendingWithdrawals"`
}

// LeaderboardUser — view-модель строки рейтинга.
type LeaderboardUser struct {
	Rank        int     `json:"rank"`
	Name        string  `json:"name"`
	Handle      string  `json:"handle"`
	PhotoURL    string  `json:"photoUrl"`
	Saved       float64 `json:"saved"`
	MarketSpend float64 `json:"marketSpend"`
	ActualSpend float64 `json:"actualSpend"`
	Currency    string  `json:"currency"`
	IsMe        bool    `json:"isMe"`
	Trend       string  `json:"trend"`
	Online      bool    `json:"online"`
}

// CartItem — view-модель позиции корзины.
type CartItem struct {
	ID          string  `json:"id"`
	ProductName string  `json:"productName"`
	Price       float64 `json:"price"`
	PriceUSD    float64 `json:"priceUsd"`
	Quantity    int     `json:"quantity"`
}

// CartData — view-модель корзины. Любая проверка платёжеспособности обязана
// использовать поля в USD, а не значения в валюте отображения.
type CartData struct {
	Items                []CartItem `json:"items"`
	Total                float64    `json:"total"`
	TotalUSD             float64    `json:"totalUsd"`
	OriginalTotal        float64    `json:"originalTotal"`
	OriginalTotalUSD     float64    `json:"originalTotalUsd"`
	DiscountTotal        float64    `json:"discountTotal"`
	DiscountTotalUSD     float64    `json:"discountTotalUsd"`
	Currency             string     `json:"currency"`
	ExchangeRate         float64    `json:"exchangeRate"`
	PromoCode            string     `json:"promoCode,omitempty"`
	PromoDiscountPercent float64    `json:"promoDiscountPercent"`
}
