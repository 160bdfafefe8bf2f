package adapter

import (
	"testing"

	"github.com/gvmbt/pvndora-storefront/internal/model"
)

var stubCosmetics = StaticCosmetics{TrendValue: "flat", OnlineValue: false}

func rawPage(ranks ...int) model.RawLeaderboard {
	entries := make([]model.RawLeaderboardEntry, 0, len(ranks))
	for _, r := range ranks {
		name := "agent"
		entries = append(entries, model.RawLeaderboardEntry{
			Rank:        r,
			Name:        &name,
			SavedAmount: float64(r * 10),
		})
	}
	return model.RawLeaderboard{Entries: entries, Currency: "USD"}
}

func TestAdaptLeaderboard_MarketSpendDerivation(t *testing.T) {
	page := model.RawLeaderboard{
		Currency: "USD",
		Entries: []model.RawLeaderboardEntry{
			{Rank: 1, SavedAmount: 20},
		},
	}

	users := AdaptLeaderboard(page, nil, stubCosmetics)

	if len(users) != 1 {
		t.Fatalf("users = %d, want 1", len(users))
	}
	u := users[0]
	if u.MarketSpend != 100 {
		t.Fatalf("marketSpend = %v, want 100 (saved / 0.2)", u.MarketSpend)
	}
	if u.ActualSpend != 80 {
		t.Fatalf("actualSpend = %v, want 80", u.ActualSpend)
	}
	if u.Currency != "USD" {
		t.Fatalf("page currency must be stamped on every row")
	}
}

func TestAdaptLeaderboard_SynthesizesMissingMe(t *testing.T) {
	page := rawPage(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15)
	rank := 47
	saved := 12.5
	page.MyRank = &rank
	page.MySaved = &saved

	tg := &model.TelegramUser{ID: 9, FirstName: "Neo", Username: "neo", PhotoURL: "https://t.me/neo.jpg"}

	users := AdaptLeaderboard(page, tg, stubCosmetics)

	var me []model.LeaderboardUser
	for _, u := range users {
		if u.IsMe {
			me = append(me, u)
		}
	}

	if len(me) != 1 {
		t.Fatalf("entries with isMe = %d, want exactly 1", len(me))
	}
	if me[0].Rank != 47 {
		t.Fatalf("synthesized rank = %d, want 47", me[0].Rank)
	}
	if me[0].Saved != 12.5 {
		t.Fatalf("synthesized saved = %v, want 12.5", me[0].Saved)
	}
	if me[0].Name != "Neo" || me[0].Handle != "neo" {
		t.Fatalf("synthesized identity must prefer telegram data: %+v", me[0])
	}
}

func TestAdaptLeaderboard_DoesNotSynthesizeWhenMePresent(t *testing.T) {
	name := "me"
	page := model.RawLeaderboard{
		Currency: "USD",
		Entries: []model.RawLeaderboardEntry{
			{Rank: 1, Name: &name, IsMe: true},
		},
	}
	rank := 1
	page.MyRank = &rank

	users := AdaptLeaderboard(page, nil, stubCosmetics)

	count := 0
	for _, u := range users {
		if u.IsMe {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("isMe entries = %d, want 1", count)
	}
	if len(users) != 1 {
		t.Fatalf("users = %d, want 1", len(users))
	}
}

func TestAdaptLeaderboard_DeduplicatesRanks(t *testing.T) {
	first := "first"
	second := "second"
	page := model.RawLeaderboard{
		Currency: "USD",
		Entries: []model.RawLeaderboardEntry{
			{Rank: 3, Name: &first, SavedAmount: 10},
			{Rank: 3, Name: &second, SavedAmount: 20},
		},
	}

	users := AdaptLeaderboard(page, nil, stubCosmetics)

	if len(users) != 1 {
		t.Fatalf("users = %d, want 1 after dedup", len(users))
	}
	if users[0].Name != "first" {
		t.Fatalf("dedup must keep the first occurrence, got %q", users[0].Name)
	}
}

func TestAdaptLeaderboard_SortsAscendingByRank(t *testing.T) {
	page := rawPage(5, 1, 3)

	users := AdaptLeaderboard(page, nil, stubCosmetics)

	for i := 1; i < len(users); i++ {
		if users[i-1].Rank > users[i].Rank {
			t.Fatalf("ranks not ascending: %d before %d", users[i-1].Rank, users[i].Rank)
		}
	}
}

func TestAdaptLeaderboard_CosmeticsAreIsolated(t *testing.T) {
	page := rawPage(1)

	users := AdaptLeaderboard(page, nil, StaticCosmetics{TrendValue: "up", OnlineValue: true})

	if users[0].Trend != "up" || !users[0].Online {
		t.Fatalf("cosmetics source must drive trend/online: %+v", users[0])
	}
	if users[0].Saved != 10 || users[0].MarketSpend != 50 {
		t.Fatalf("cosmetics must not leak into financial fields: %+v", users[0])
	}
}
