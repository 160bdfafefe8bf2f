package adapter

import "math/rand"

// Cosmetics поставляет декоративные поля рейтинга (тренд, «в сети»), которых
// бэкенд не хранит. Случайность изолирована за этим интерфейсом, чтобы тесты
// бизнес-логики подставляли детерминированную заглушку и чтобы она не могла
// протечь в финансовые или статусные поля.
type Cosmetics interface {
	Trend() string
	Online() bool
}

var trends = []string{"up", "down", "flat"}

type randomCosmetics struct{}

// NewRandomCosmetics возвращает источник косметики на math/rand.
func NewRandomCosmetics() Cosmetics {
	return randomCosmetics{}
}

func (randomCosmetics) Trend() string {
	return trends[rand.Intn(len(trends))]
}

func (randomCosmetics) Online() bool {
	return rand.Float64() < 0.3
}

// StaticCosmetics — детерминированная косметика для тестов.
type StaticCosmetics struct {
	TrendValue  string
	OnlineValue bool
}

func (s StaticCosmetics) Trend() string { return s.TrendValue }

func (s StaticCosmetics) Online() bool { return s.OnlineValue }
