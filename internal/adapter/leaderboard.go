package adapter

import (
	"fmt"
	"sort"

	"github.com/gvmbt/pvndora-storefront/internal/model"
)

// assumedDiscountRate — условная средняя скидка площадки. «Рыночные» траты в
// рейтинге восстанавливаются из экономии по этой константе и являются
// оценкой для отображения, а не бухгалтерской величиной.
const assumedDiscountRate = 0.2

// AdaptLeaderboard преобразует страницу рейтинга в упорядоченный список строк.
// Гарантии на выходе: ранги уникальны (при дублях остаётся первая строка),
// строка текущего пользователя присутствует ровно один раз — если страница её
// не содержит, она синтезируется из MyRank/MySaved и личности Telegram.
func AdaptLeaderboard(raw model.RawLeaderboard, tg *model.TelegramUser, cosmetics Cosmetics) []model.LeaderboardUser {
	users := make([]model.LeaderboardUser, 0, len(raw.Entries)+1)

	seenMe := false
	for _, e := range raw.Entries {
		u := adaptEntry(e, raw.Currency, cosmetics)
		if u.IsMe {
			if seenMe {
				u.IsMe = false
			}
			seenMe = true
		}
		users = append(users, u)
	}

	if !seenMe && raw.MyRank != nil {
		users = append(users, synthesizeMe(raw, tg, cosmetics))
	}

	users = dedupByRank(users)

	sort.SliceStable(users, func(i, j int) bool {
		return users[i].Rank < users[j].Rank
	})

	return users
}

func adaptEntry(e model.RawLeaderboardEntry, currency string, cosmetics Cosmetics) model.LeaderboardUser {
	marketSpend := e.SavedAmount / assumedDiscountRate
	name := firstNonEmpty(deref(e.Name), deref(e.Username), fmt.Sprintf("agent%d", e.Rank))
	handle := firstNonEmpty(deref(e.Username), deref(e.Name), fmt.Sprintf("agent%d", e.Rank))

	return model.LeaderboardUser{
		Rank:        e.Rank,
		Name:        name,
		Handle:      handle,
		PhotoURL:    firstNonEmpty(deref(e.PhotoURL), placeholderAvatar(name)),
		Saved:       e.SavedAmount,
		MarketSpend: marketSpend,
		ActualSpend: marketSpend - e.SavedAmount,
		Currency:    currency,
		IsMe:        e.IsMe,
		Trend:       cosmetics.Trend(),
		Online:      cosmetics.Online(),
	}
}

// synthesizeMe строит строку текущего пользователя, не попавшего на страницу.
// Личность берётся из Telegram, когда она есть, иначе генерируется заглушка.
func synthesizeMe(raw model.RawLeaderboard, tg *model.TelegramUser, cosmetics Cosmetics) model.LeaderboardUser {
	entry := model.RawLeaderboardEntry{
		Rank: *raw.MyRank,
		IsMe: true,
	}
	if raw.MySaved != nil {
		entry.SavedAmount = *raw.MySaved
	}
	if tg != nil {
		if name := firstNonEmpty(tg.FirstName, tg.Username); name != "" {
			entry.Name = &name
		}
		if tg.Username != "" {
			username := tg.Username
			entry.Username = &username
		}
		if tg.PhotoURL != "" {
			photo := tg.PhotoURL
			entry.PhotoURL = &photo
		}
	}

	u := adaptEntry(entry, raw.Currency, cosmetics)
	u.IsMe = true
	return u
}

// dedupByRank убирает дубли рангов, оставляя первую встреченную строку.
// Защита от дефекта бэкенда, отдающего один ранг дважды.
func dedupByRank(users []model.LeaderboardUser) []model.LeaderboardUser {
	seen := make(map[int]struct{}, len(users))
	res := users[:0]
	for _, u := range users {
		if _, ok := seen[u.Rank]; ok {
			continue
		}
		seen[u.Rank] = struct{}{}
		res = append(res, u)
	}
	return res
}
