package adapter

import (
	"testing"

	"github.com/gvmbt/pvndora-storefront/internal/model"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func programWithThresholds(level2, level3 float64) *model.RawReferralProgram {
	return &model.RawReferralProgram{
		Level2ThresholdUSD: floatPtr(level2),
		Level3ThresholdUSD: floatPtr(level3),
	}
}

func TestResolveLevel(t *testing.T) {
	tests := []struct {
		name     string
		program  *model.RawReferralProgram
		turnover float64
		want     string
	}{
		{
			name:     "below level2 threshold",
			program:  programWithThresholds(100, 500),
			turnover: 50,
			want:     LevelProxy,
		},
		{
			name:     "at level2 threshold",
			program:  programWithThresholds(100, 500),
			turnover: 100,
			want:     LevelOperator,
		},
		{
			name:     "above level3 threshold",
			program:  programWithThresholds(100, 500),
			turnover: 700,
			want:     LevelArchitect,
		},
		{
			name: "effective level overrides local math",
			program: &model.RawReferralProgram{
				Level2ThresholdUSD: floatPtr(100),
				Level3ThresholdUSD: floatPtr(500),
				EffectiveLevel:     intPtr(2),
			},
			turnover: 50,
			want:     LevelOperator,
		},
		{
			name: "effective level out of range falls back to thresholds",
			program: &model.RawReferralProgram{
				Level2ThresholdUSD: floatPtr(100),
				Level3ThresholdUSD: floatPtr(500),
				EffectiveLevel:     intPtr(7),
			},
			turnover: 50,
			want:     LevelProxy,
		},
		{
			name: "partner flag forces top level regardless of turnover",
			program: &model.RawReferralProgram{
				Level2ThresholdUSD: floatPtr(100),
				Level3ThresholdUSD: floatPtr(500),
				EffectiveLevel:     intPtr(1),
				IsPartner:          true,
			},
			turnover: 0,
			want:     LevelArchitect,
		},
		{
			name:     "missing program uses defaults",
			program:  nil,
			turnover: 50,
			want:     LevelProxy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			levels := careerLevels(tt.program)
			got := resolveLevel(levels, tt.program, tt.turnover)
			if got.Name != tt.want {
				t.Fatalf("level = %q, want %q", got.Name, tt.want)
			}
		})
	}
}

func TestProgressPercent(t *testing.T) {
	levels := careerLevels(programWithThresholds(100, 500))

	tests := []struct {
		name     string
		level    model.CareerLevel
		next     *model.CareerLevel
		program  *model.RawReferralProgram
		turnover float64
		want     float64
	}{
		{
			name:     "linear interpolation",
			level:    levels[0],
			next:     &levels[1],
			program:  programWithThresholds(100, 500),
			turnover: 25,
			want:     25,
		},
		{
			name:     "max level is always 100",
			level:    levels[2],
			next:     nil,
			program:  programWithThresholds(100, 500),
			turnover: 0,
			want:     100,
		},
		{
			name:  "degenerate zero anchor returns 0",
			level: levels[0],
			next:  &levels[1],
			program: &model.RawReferralProgram{
				Level2ThresholdUSD:   floatPtr(100),
				NextThresholdDisplay: floatPtr(0),
			},
			turnover: 25,
			want:     0,
		},
		{
			name:  "effective level at next id short-circuits to 100",
			level: levels[0],
			next:  &levels[1],
			program: &model.RawReferralProgram{
				Level2ThresholdUSD: floatPtr(100),
				EffectiveLevel:     intPtr(2),
			},
			turnover: 25,
			want:     100,
		},
		{
			name:     "clamped to 100",
			level:    levels[0],
			next:     &levels[1],
			program:  programWithThresholds(100, 500),
			turnover: 900,
			want:     100,
		},
		{
			name:  "display threshold anchor wins over usd floor",
			level: levels[0],
			next:  &levels[1],
			program: &model.RawReferralProgram{
				Level2ThresholdUSD:   floatPtr(100),
				NextThresholdDisplay: floatPtr(200),
			},
			turnover: 50,
			want:     25,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := progressPercent(tt.level, tt.next, tt.program, tt.turnover)
			if got != tt.want {
				t.Fatalf("progress = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMergeBillingLog_InterleavesSourcesByDate(t *testing.T) {
	transactions := []model.RawBalanceTransaction{
		{ID: "tx-1", Type: "deposit", Amount: 100, CreatedAt: "2025-05-03T10:00:00Z"},
	}
	bonuses := []model.RawBonusRecord{
		{ID: "bonus-1", Amount: 10, CreatedAt: "2025-05-01T10:00:00Z"},
	}
	withdrawals := []model.RawWithdrawal{
		{ID: "wd-1", Amount: 50, Status: "completed", CreatedAt: "2025-05-02T10:00:00Z"},
	}

	log := MergeBillingLog(transactions, bonuses, withdrawals, "USD")

	if len(log) != 3 {
		t.Fatalf("merged log length = %d, want 3", len(log))
	}

	wantOrder := []string{"tx-1", "wd-1", "bonus-1"}
	for i, want := range wantOrder {
		if log[i].ID != want {
			t.Fatalf("position %d = %q, want %q (merge must interleave by date, not by source)", i, log[i].ID, want)
		}
	}
}

func TestMergeBillingLog_Directions(t *testing.T) {
	transactions := []model.RawBalanceTransaction{
		{ID: "dep", Type: "deposit", CreatedAt: "2025-05-01T10:00:00Z"},
		{ID: "buy", Type: "purchase", CreatedAt: "2025-05-01T10:00:00Z"},
		{ID: "odd", Type: "quantum_adjustment", CreatedAt: "2025-05-01T10:00:00Z"},
	}
	bonuses := []model.RawBonusRecord{
		{ID: "bonus", CreatedAt: "2025-05-01T10:00:00Z"},
	}
	withdrawals := []model.RawWithdrawal{
		{ID: "wd", Status: "completed", CreatedAt: "2025-05-01T10:00:00Z"},
	}

	log := MergeBillingLog(transactions, bonuses, withdrawals, "USD")

	directions := make(map[string]model.BillingDirection, len(log))
	for _, e := range log {
		directions[e.ID] = e.Direction
	}

	if directions["dep"] != model.BillingIncome {
		t.Fatalf("deposit direction = %q", directions["dep"])
	}
	if directions["buy"] != model.BillingOutcome {
		t.Fatalf("purchase direction = %q", directions["buy"])
	}
	if directions["odd"] != model.BillingSystem {
		t.Fatalf("unknown type direction = %q, want SYSTEM", directions["odd"])
	}
	if directions["bonus"] != model.BillingIncome {
		t.Fatalf("bonus direction = %q", directions["bonus"])
	}
	if directions["wd"] != model.BillingOutcome {
		t.Fatalf("withdrawal direction = %q", directions["wd"])
	}
}

func TestMergeBillingLog_UnparseableDatesSortLast(t *testing.T) {
	transactions := []model.RawBalanceTransaction{
		{ID: "good", Type: "deposit", CreatedAt: "2025-05-01T10:00:00Z"},
		{ID: "bad", Type: "deposit", CreatedAt: "date-unknown"},
	}

	log := MergeBillingLog(transactions, nil, nil, "USD")

	if log[len(log)-1].ID != "bad" {
		t.Fatalf("entry with unparseable date must sort last")
	}
}

func TestAdaptProfile_IdentityPrecedence(t *testing.T) {
	raw := model.RawProfile{
		UserID:    777,
		FirstName: strPtr("Backend Name"),
		Username:  strPtr("backend_handle"),
		PhotoURL:  strPtr("https://backend/photo.jpg"),
	}

	tg := &model.TelegramUser{
		ID:        777,
		FirstName: "Tg",
		LastName:  "User",
		Username:  "tg_handle",
		PhotoURL:  "https://t.me/photo.jpg",
	}

	withTg := AdaptProfile(raw, tg)
	if withTg.Name != "Tg User" || withTg.Handle != "tg_handle" || withTg.PhotoURL != "https://t.me/photo.jpg" {
		t.Fatalf("telegram identity must win: %+v", withTg)
	}

	withoutTg := AdaptProfile(raw, nil)
	if withoutTg.Name != "Backend Name" || withoutTg.Handle != "backend_handle" {
		t.Fatalf("backend identity must be second: %+v", withoutTg)
	}

	bare := AdaptProfile(model.RawProfile{UserID: 777}, nil)
	if bare.Name != "user777" {
		t.Fatalf("placeholder name = %q", bare.Name)
	}
	if bare.PhotoURL == "" {
		t.Fatalf("placeholder avatar must be generated")
	}
}

func TestAdaptProfile_PendingWithdrawals(t *testing.T) {
	raw := model.RawProfile{
		UserID:   1,
		Currency: "RUB",
		Withdrawals: []model.RawWithdrawal{
			{ID: "wd-1", Amount: 100, Status: "pending", CreatedAt: "2025-05-01T10:00:00Z"},
			{ID: "wd-2", Amount: 200, Status: "completed", CreatedAt: "2025-05-02T10:00:00Z"},
			{ID: "wd-3", Amount: 300, Status: "PENDING", CreatedAt: "2025-05-03T10:00:00Z"},
		},
	}

	profile := AdaptProfile(raw, nil)

	if len(profile.PendingWithdrawals) != 2 {
		t.Fatalf("pending withdrawals = %d, want 2", len(profile.PendingWithdrawals))
	}
	for _, w := range profile.PendingWithdrawals {
		if w.Currency != "RUB" {
			t.Fatalf("pending withdrawal currency = %q, want fallback RUB", w.Currency)
		}
	}
}

func TestAdaptProfile_NextLevel(t *testing.T) {
	raw := model.RawProfile{
		UserID:  1,
		Program: programWithThresholds(100, 500),
		Stats:   &model.RawReferralStats{TurnoverUSD: 150},
	}

	profile := AdaptProfile(raw, nil)

	if profile.Level.Name != LevelOperator {
		t.Fatalf("level = %q", profile.Level.Name)
	}
	if profile.NextLevel == nil || profile.NextLevel.Name != LevelArchitect {
		t.Fatalf("next level = %+v", profile.NextLevel)
	}

	top := AdaptProfile(model.RawProfile{
		UserID:  1,
		Program: &model.RawReferralProgram{IsPartner: true},
	}, nil)
	if top.NextLevel != nil {
		t.Fatalf("top level must have no next level")
	}
	if top.ProgressPercent != 100 {
		t.Fatalf("top level progress = %v, want 100", top.ProgressPercent)
	}
}
