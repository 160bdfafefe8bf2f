// Package service реализует бизнес-логику сервиса витрины: получение данных
// с бэкенда, прогон через адаптеры и слияние с локальным состоянием.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gvmbt/pvndora-storefront/internal/adapter"
	"github.com/gvmbt/pvndora-storefront/internal/model"
)

// ErrCancelNotAllowed возвращается при попытке отменить заказ вне статуса pending.
var (
	ErrCancelNotAllowed = errors.New("order cannot be cancelled in its current status")
	// ErrRefundNotAllowed возвращается, когда окно возврата закрыто.
	ErrRefundNotAllowed = errors.New("refund window is closed for this order")
	// ErrInsufficientBalance возвращается, когда баланс в USD не покрывает корзину.
	ErrInsufficientBalance = errors.New("balance does not cover cart total")
	// ErrInvalidRating возвращается при оценке вне диапазона 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	// ErrItemNotFound возвращается, когда позиция не принадлежит заказу пользователя.
	ErrItemNotFound = errors.New("order item not found")
	// ErrItemNotDelivered возвращается при отзыве на ещё не выданную позицию.
	ErrItemNotDelivered = errors.New("item is not delivered yet")
)

// fallbackCurrency подставляется, когда бэкенд не назвал валюту заказа.
const fallbackCurrency = "USD"

// Repository описывает контракт доступа к локальным данным, используемый сервисом.
type Repository interface {
	Close() error
	UpsertUser(ctx context.Context, user model.TelegramUser) error
	CreateReview(ctx context.Context, userID int64, orderID, itemID string, rating int, text string) error
	GetReviewedItems(ctx context.Context, userID int64, itemIDs []string) (map[string]bool, error)
}

// Backend описывает контракт клиента бэкенда витрины, используемый сервисом.
type Backend interface {
	GetOrders(ctx context.Context, userID int64) ([]model.RawOrder, error)
	GetOrder(ctx context.Context, userID int64, orderID string) (*model.RawOrder, error)
	CancelOrder(ctx context.Context, userID int64, orderID string) error
	RequestRefund(ctx context.Context, userID int64, orderID string) error
	GetProfile(ctx context.Context, userID int64) (*model.RawProfile, error)
	GetLeaderboard(ctx context.Context, userID int64, limit int) (*model.RawLeaderboard, error)
	GetCart(ctx context.Context, userID int64) (*model.RawCart, error)
	ApplyPromo(ctx context.Context, userID int64, code string) (*model.RawCart, error)
	Checkout(ctx context.Context, userID int64) (*model.RawOrder, error)
}

// Service содержит бизнес-логику сервиса витрины.
type Service struct {
	repo      Repository
	backend   Backend
	cosmetics adapter.Cosmetics

	mu       sync.RWMutex
	snapshot *model.RawLeaderboard
}

// NewService создаёт сервис с указанными репозиторием, клиентом бэкенда и
// источником косметики рейтинга.
func NewService(repo Repository, backend Backend, cosmetics adapter.Cosmetics) *Service {
	if cosmetics == nil {
		cosmetics = adapter.NewRandomCosmetics()
	}
	return &Service{
		repo:      repo,
		backend:   backend,
		cosmetics: cosmetics,
	}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

// GetOrders возвращает адаптированные заказы пользователя с учётом локально
// сохранённых отзывов.
func (s *Service) GetOrders(ctx context.Context, user *model.TelegramUser) ([]model.Order, error) {
	rawOrders, err := s.backend.GetOrders(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	orders := make([]model.Order, 0, len(rawOrders))
	itemIDs := make([]string, 0, len(rawOrders))
	for _, raw := range rawOrders {
		o := adapter.AdaptOrder(raw, fallbackCurrency, now)
		for _, it := range o.Items {
			itemIDs = append(itemIDs, it.ID)
		}
		orders = append(orders, o)
	}

	reviewed, err := s.repo.GetReviewedItems(ctx, user.ID, itemIDs)
	if err != nil {
		return nil, err
	}

	for oi := range orders {
		for ii := range orders[oi].Items {
			if reviewed[orders[oi].Items[ii].ID] {
				orders[oi].Items[ii].HasReview = true
			}
		}
	}

	return orders, nil
}

// GetOrder возвращает один адаптированный заказ пользователя.
func (s *Service) GetOrder(ctx context.Context, user *model.TelegramUser, orderID string) (*model.Order, error) {
	raw, err := s.backend.GetOrder(ctx, user.ID, orderID)
	if err != nil {
		return nil, err
	}

	order := adapter.AdaptOrder(*raw, fallbackCurrency, time.Now())

	itemIDs := make([]string, 0, len(order.Items))
	for _, it := range order.Items {
		itemIDs = append(itemIDs, it.ID)
	}
	reviewed, err := s.repo.GetReviewedItems(ctx, user.ID, itemIDs)
	if err != nil {
		return nil, err
	}
	for i := range order.Items {
		if reviewed[order.Items[i].ID] {
			order.Items[i].HasReview = true
		}
	}

	return &order, nil
}

// CancelOrder отменяет заказ, если его нормализованный статус это допускает.
func (s *Service) CancelOrder(ctx context.Context, user *model.TelegramUser, orderID string) error {
	raw, err := s.backend.GetOrder(ctx, user.ID, orderID)
	if err != nil {
		return err
	}

	if !adapter.CanCancel(adapter.NormalizeStatus(raw.Status)) {
		return ErrCancelNotAllowed
	}

	return s.backend.CancelOrder(ctx, user.ID, orderID)
}

// RequestRefund открывает возврат, если окно гарантии ещё не закрылось.
func (s *Service) RequestRefund(ctx context.Context, user *model.TelegramUser, orderID string) error {
	raw, err := s.backend.GetOrder(ctx, user.ID, orderID)
	if err != nil {
		return err
	}

	order := adapter.AdaptOrder(*raw, fallbackCurrency, time.Now())
	if !order.CanRequestRefund {
		return ErrRefundNotAllowed
	}

	return s.backend.RequestRefund(ctx, user.ID, orderID)
}

// CreateReview сохраняет отзыв на выданную позицию заказа пользователя.
func (s *Service) CreateReview(ctx context.Context, user *model.TelegramUser, orderID, itemID string, rating int, text string) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}

	raw, err := s.backend.GetOrder(ctx, user.ID, orderID)
	if err != nil {
		return err
	}

	order := adapter.AdaptOrder(*raw, fallbackCurrency, time.Now())

	var item *model.OrderItem
	for i := range order.Items {
		if order.Items[i].ID == itemID {
			item = &order.Items[i]
			break
		}
	}
	if item == nil {
		return ErrItemNotFound
	}
	if item.Status != model.ItemStatusDelivered {
		return ErrItemNotDelivered
	}

	return s.repo.CreateReview(ctx, user.ID, orderID, itemID, rating, text)
}

// GetProfile возвращает адаптированный профиль. Личность Telegram из initData
// приоритетнее сохранённой на бэкенде; она же фиксируется в локальной БД.
func (s *Service) GetProfile(ctx context.Context, user *model.TelegramUser) (*model.ProfileData, error) {
	if err := s.repo.UpsertUser(ctx, *user); err != nil {
		return nil, err
	}

	raw, err := s.backend.GetProfile(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	profile := adapter.AdaptProfile(*raw, user)
	return &profile, nil
}

// GetLeaderboard возвращает адаптированный рейтинг. При недоступном бэкенде
// отдаётся последний фоновый снапшот, если он есть.
func (s *Service) GetLeaderboard(ctx context.Context, user *model.TelegramUser, limit int) ([]model.LeaderboardUser, error) {
	raw, err := s.backend.GetLeaderboard(ctx, user.ID, limit)
	if err != nil {
		raw = s.snapshotPage()
		if raw == nil {
			return nil, err
		}
	}

	return adapter.AdaptLeaderboard(*raw, user, s.cosmetics), nil
}

// GetCart возвращает адаптированную корзину пользователя.
func (s *Service) GetCart(ctx context.Context, user *model.TelegramUser) (*model.CartData, error) {
	raw, err := s.backend.GetCart(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	cart := adapter.AdaptCart(*raw)
	return &cart, nil
}

// ApplyPromo применяет промокод и возвращает пересчитанную корзину.
func (s *Service) ApplyPromo(ctx context.Context, user *model.TelegramUser, code string) (*model.CartData, error) {
	raw, err := s.backend.ApplyPromo(ctx, user.ID, code)
	if err != nil {
		return nil, err
	}

	cart := adapter.AdaptCart(*raw)
	return &cart, nil
}

// Checkout оформляет корзину в заказ. Платёжеспособность проверяется строго
// по USD-паре корзины и баланса.
func (s *Service) Checkout(ctx context.Context, user *model.TelegramUser) (*model.Order, error) {
	rawCart, err := s.backend.GetCart(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	cart := adapter.AdaptCart(*rawCart)

	rawProfile, err := s.backend.GetProfile(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	if !adapter.CanPayWithBalance(cart, rawProfile.BalanceUSD) {
		return nil, ErrInsufficientBalance
	}

	rawOrder, err := s.backend.Checkout(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	order := adapter.AdaptOrder(*rawOrder, cart.Currency, time.Now())
	return &order, nil
}

// StartLeaderboardRefresh запускает фоновое обновление снапшота рейтинга.
// Снапшот анонимный: строку текущего пользователя каждый запрос строит сам.
func (s *Service) StartLeaderboardRefresh(ctx context.Context, interval time.Duration) {
	if s.backend == nil {
		return
	}
	if interval <= 0 {
		interval = time.Minute
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.refreshSnapshot(ctx)
			}
		}
	}()
}

func (s *Service) refreshSnapshot(ctx context.Context) {
	raw, err := s.backend.GetLeaderboard(ctx, 0, 100)
	if err != nil || raw == nil {
		return
	}

	s.mu.Lock()
	s.snapshot = raw
	s.mu.Unlock()
}

func (s *Service) snapshotPage() *model.RawLeaderboard {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}
