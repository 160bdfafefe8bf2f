package adapter

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/gvmbt/pvndora-storefront/internal/model"
)

// Имена уровней карьерной лестницы.
const (
	LevelProxy     = "PROXY"
	LevelOperator  = "OPERATOR"
	LevelArchitect = "ARCHITECT"
)

// Пороги по умолчанию (USD) на случай, если бэкенд не прислал программу.
const (
	defaultLevel2USD = 100
	defaultLevel3USD = 500
)

// AdaptProfile преобразует профиль бэкенда в view-модель. tg — личность из
// initData Telegram; она приоритетнее данных, сохранённых на бэкенде.
func AdaptProfile(raw model.RawProfile, tg *model.TelegramUser) model.ProfileData {
	name, handle, photo := resolveIdentity(raw, tg)

	turnover := 0.0
	invitedTotal, invitedActive := 0, 0
	referralCode := ""
	if raw.Stats != nil {
		turnover = raw.Stats.TurnoverUSD
		invitedTotal = raw.Stats.InvitedTotal
		invitedActive = raw.Stats.InvitedActive
		referralCode = raw.Stats.ReferralCode
	}

	levels := careerLevels(raw.Program)
	level := resolveLevel(levels, raw.Program, turnover)

	var next *model.CareerLevel
	if level.ID < len(levels) {
		n := levels[level.ID]
		next = &n
	}

	return model.ProfileData{
		UserID:             raw.UserID,
		Name:               name,
		Handle:             handle,
		PhotoURL:           photo,
		Balance:            raw.Balance,
		BalanceUSD:         raw.BalanceUSD,
		Currency:           raw.Currency,
		Level:              level,
		NextLevel:          next,
		ProgressPercent:    progressPercent(level, next, raw.Program, turnover),
		InvitedTotal:       invitedTotal,
		InvitedActive:      invitedActive,
		TurnoverUSD:        turnover,
		ReferralCode:       referralCode,
		Billing:            MergeBillingLog(raw.Transactions, raw.Bonuses, raw.Withdrawals, raw.Currency),
		PendingWithdrawals: pendingWithdrawals(raw.Withdrawals, raw.Currency),
	}
}

// resolveIdentity выбирает имя, хэндл и аватар по строгому порядку источников:
// Telegram, затем бэкенд, затем сгенерированная заглушка.
func resolveIdentity(raw model.RawProfile, tg *model.TelegramUser) (name, handle, photo string) {
	var tgName, tgHandle, tgPhoto string
	if tg != nil {
		tgName = strings.TrimSpace(strings.TrimSpace(tg.FirstName) + " " + strings.TrimSpace(tg.LastName))
		tgHandle = tg.Username
		tgPhoto = tg.PhotoURL
	}

	name = firstNonEmpty(tgName, deref(raw.FirstName), fmt.Sprintf("user%d", raw.UserID))
	handle = firstNonEmpty(tgHandle, deref(raw.Username), fmt.Sprintf("user%d", raw.UserID))
	photo = firstNonEmpty(tgPhoto, deref(raw.PhotoURL), placeholderAvatar(name))
	return name, handle, photo
}

// firstNonEmpty возвращает первый непустой кандидат. Порядок аргументов и
// есть порядок приоритета источников.
func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if strings.TrimSpace(c) != "" {
			return c
		}
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func placeholderAvatar(name string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name)
}

// careerLevels строит лестницу уровней по порогам программы. Отсутствующие
// пороги заменяются значениями по умолчанию.
func careerLevels(program *model.RawReferralProgram) []model.CareerLevel {
	level2 := float64(defaultLevel2USD)
	level3 := float64(defaultLevel3USD)
	if program != nil {
		if program.Level2ThresholdUSD != nil {
			level2 = *program.Level2ThresholdUSD
		}
		if program.Level3ThresholdUSD != nil {
			level3 = *program.Level3ThresholdUSD
		}
	}
	return []model.CareerLevel{
		{ID: 1, Name: LevelProxy, FloorUSD: 0},
		{ID: 2, Name: LevelOperator, FloorUSD: level2},
		{ID: 3, Name: LevelArchitect, FloorUSD: level3},
	}
}

// resolveLevel определяет уровень по строгому приоритету источников:
// партнёрский флаг, затем effective_level бэкенда, затем локальное сравнение
// оборота с порогами. Источники не комбинируются.
func resolveLevel(levels []model.CareerLevel, program *model.RawReferralProgram, turnoverUSD float64) model.CareerLevel {
	if program != nil && program.IsPartner {
		return levels[len(levels)-1]
	}

	if program != nil && program.EffectiveLevel != nil {
		if id := *program.EffectiveLevel; id >= 1 && id <= len(levels) {
			return levels[id-1]
		}
	}

	for i := len(levels) - 1; i > 0; i-- {
		if turnoverUSD >= levels[i].FloorUSD {
			return levels[i]
		}
	}
	return levels[0]
}

// progressPercent считает прогресс до следующего уровня линейной
// интерполяцией между полом текущего уровня и якорным порогом следующего.
// Якорь берётся из next_threshold_display бэкенда, когда тот есть; локальный
// порог в USD — запасной путь, пути намеренно не унифицируются.
func progressPercent(level model.CareerLevel, next *model.CareerLevel, program *model.RawReferralProgram, turnoverUSD float64) float64 {
	if next == nil {
		return 100
	}
	if program != nil && program.EffectiveLevel != nil && *program.EffectiveLevel >= next.ID {
		return 100
	}

	anchor := next.FloorUSD
	if program != nil && program.NextThresholdDisplay != nil {
		anchor = *program.NextThresholdDisplay
	}

	denom := anchor - level.FloorUSD
	if denom <= 0 {
		return 0
	}

	pct := (turnoverUSD - level.FloorUSD) / denom * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// transactionDirections — направление операции по типу из текущего формата.
var transactionDirections = map[string]model.BillingDirection{
	"deposit":        model.BillingIncome,
	"referral_bonus": model.BillingIncome,
	"refund":         model.BillingIncome,
	"cashback":       model.BillingIncome,
	"purchase":       model.BillingOutcome,
	"withdrawal":     model.BillingOutcome,
}

var transactionLabels = map[string]string{
	"deposit":        "Пополнение баланса",
	"referral_bonus": "Реферальный бонус",
	"refund":         "Возврат средств",
	"cashback":       "Кэшбэк",
	"purchase":       "Оплата заказа",
	"withdrawal":     "Вывод средств",
}

// MergeBillingLog объединяет три истории операций (текущие транзакции,
// легаси-бонусы и легаси-выводы) в один список, отсортированный по дате по
// убыванию. Сортировка стабильная и перемешивает источники по дате, а не по
// происхождению; записи с нечитаемой датой оказываются в конце.
func MergeBillingLog(transactions []model.RawBalanceTransaction, bonuses []model.RawBonusRecord, withdrawals []model.RawWithdrawal, fallbackCurrency string) []model.BillingEntry {
	entries := make([]model.BillingEntry, 0, len(transactions)+len(bonuses)+len(withdrawals))

	for _, tx := range transactions {
		direction, ok := transactionDirections[tx.Type]
		if !ok {
			direction = model.BillingSystem
		}
		label, ok := transactionLabels[tx.Type]
		if !ok {
			label = tx.Type
		}
		if tx.Comment != nil && *tx.Comment != "" {
			label = *tx.Comment
		}
		date, _ := ParseDate(tx.CreatedAt)
		entries = append(entries, model.BillingEntry{
			ID:        tx.ID,
			Source:    "transaction",
			Direction: direction,
			Label:     label,
			Amount:    tx.Amount,
			Currency:  firstNonEmpty(tx.Currency, fallbackCurrency),
			Date:      date,
		})
	}

	for _, b := range bonuses {
		label := "Реферальный бонус"
		if b.FromUser != nil && *b.FromUser != "" {
			label = "Реферальный бонус от " + *b.FromUser
		}
		date, _ := ParseDate(b.CreatedAt)
		entries = append(entries, model.BillingEntry{
			ID:        b.ID,
			Source:    "bonus",
			Direction: model.BillingIncome,
			Label:     label,
			Amount:    b.Amount,
			Currency:  firstNonEmpty(b.Currency, fallbackCurrency),
			Date:      date,
		})
	}

	for _, w := range withdrawals {
		date, _ := ParseDate(w.CreatedAt)
		entries = append(entries, model.BillingEntry{
			ID:        w.ID,
			Source:    "withdrawal",
			Direction: model.BillingOutcome,
			Label:     "Вывод средств",
			Amount:    w.Amount,
			Currency:  firstNonEmpty(w.Currency, fallbackCurrency),
			Date:      date,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})

	return entries
}

// pendingWithdrawals выбирает заявки на вывод в статусе pending: по ним
// средства зарезервированы и UI показывает их отдельно.
func pendingWithdrawals(withdrawals []model.RawWithdrawal, fallbackCurrency string) []model.PendingWithdrawal {
	res := make([]model.PendingWithdrawal, 0)
	for _, w := range withdrawals {
		if strings.ToLower(strings.TrimSpace(w.Status)) != "pending" {
			continue
		}
		date, _ := ParseDate(w.CreatedAt)
		res = append(res, model.PendingWithdrawal{
			ID:       w.ID,
			Amount:   w.Amount,
			Currency: firstNonEmpty(w.Currency, fallbackCurrency),
			Date:     date,
		})
	}
	return res
}
