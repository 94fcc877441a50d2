package progression

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"tutien/internal/domain/realm"
)

type scriptedRandom struct {
	outcomes []bool
	ints     []int
}

func (r *scriptedRandom) Bernoulli(_ float64) bool {
	if len(r.outcomes) == 0 {
		return false
	}
	v := r.outcomes[0]
	r.outcomes = r.outcomes[1:]
	return v
}

func (r *scriptedRandom) UniformInt(lo, hi int) int {
	if len(r.ints) == 0 {
		return lo
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func eligiblePlayer(realmIndex int) Player {
	p := NewPlayer("p1", testNow, "2026-03-10")
	step := realmIndex + 1
	p.RealmIndex = realmIndex
	p.Experience = 10_000_000
	p.Power = step * RequiredPowerPerRealm
	p.Spirit = step*RequiredSpiritPerRealm + 10
	p.Level = step * RequiredLevelPerRealm
	p.Coins = step*CoinCostPerRealm + 10_000
	return p
}

func TestRequirements_FirstRealm(t *testing.T) {
	svc := BreakthroughService{Catalog: realm.Default()}
	got, ok := svc.Requirements(0)
	if !ok {
		t.Fatalf("expected requirements for realm 0")
	}
	want := Requirements{
		RealmIndex:         0,
		RealmName:          "Phàm Nhân",
		NextRealmName:      "Luyện Thể",
		RequiredExperience: 200,
		RequiredPower:      500,
		RequiredSpirit:     2,
		RequiredLevel:      2,
		BaseSuccessRate:    90,
		Cost:               Cost{Coins: 1000, Spirit: 0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("requirements mismatch (-want +got):\n%s", diff)
	}
}

func TestRequirements_FinalRealm(t *testing.T) {
	c := realm.Default()
	svc := BreakthroughService{Catalog: c}
	if _, ok := svc.Requirements(c.Len() - 1); ok {
		t.Fatalf("expected no requirements at the final realm")
	}
}

func TestBaseSuccessRate_DecaysWithinCategory(t *testing.T) {
	svc := BreakthroughService{Catalog: realm.Default()}
	cases := []struct {
		index int
		want  int
	}{
		{0, 90}, {1, 85}, {3, 75},
		{4, 80}, {9, 55},
		{10, 70}, {15, 45},
		{16, 60}, {21, 35},
		{22, 50}, {27, 25},
	}
	for _, tc := range cases {
		if got := svc.BaseSuccessRate(tc.index); got != tc.want {
			t.Fatalf("base rate at %d: got=%d want=%d", tc.index, got, tc.want)
		}
	}
}

func TestBaseSuccessRate_Floor(t *testing.T) {
	realms := make([]realm.Realm, 20)
	for i := range realms {
		realms[i] = realm.Realm{Name: "r", Category: realm.CategorySupreme, PowerMultiplier: 1}
	}
	svc := BreakthroughService{Catalog: realm.NewCatalog(realms)}
	if got := svc.BaseSuccessRate(19); got != MinBaseSuccessRate {
		t.Fatalf("expected floor %d, got %d", MinBaseSuccessRate, got)
	}
}

func TestEffectiveSuccessRate(t *testing.T) {
	svc := BreakthroughService{Catalog: realm.Default()}
	if got := svc.EffectiveSuccessRate(0, 0); got != 95 {
		t.Fatalf("expected cap 95 at realm 0, got %d", got)
	}
	if got := svc.EffectiveSuccessRate(10, 50); got != 90 {
		t.Fatalf("expected equipment bonus capped at 20 (70+20), got %d", got)
	}
	if got := svc.EffectiveSuccessRate(10, -5); got != 70 {
		t.Fatalf("negative bonus must be ignored, got %d", got)
	}
	if got := svc.EffectiveSuccessRate(4, 0); got != 90 {
		t.Fatalf("expected early bonus at realm 4 (80+10), got %d", got)
	}
}

func TestCanAttempt_AccumulatesAllReasons(t *testing.T) {
	svc := BreakthroughService{Catalog: realm.Default()}
	p := NewPlayer("p1", testNow, "2026-03-10")
	p.Coins = 0
	p.Spirit = 0
	last := testNow.Add(-10 * time.Minute)
	p.LastBreakthroughAttemptAt = &last

	got := svc.CanAttempt(p, testNow)
	if got.Allowed {
		t.Fatalf("expected not allowed")
	}
	if len(got.Reasons) != 6 {
		t.Fatalf("expected 6 reasons, got %d: %v", len(got.Reasons), got.Reasons)
	}
	if !strings.Contains(got.Reasons[len(got.Reasons)-1], "cooldown") {
		t.Fatalf("expected cooldown reason last, got %v", got.Reasons)
	}
}

func TestCanAttempt_AllowedIffNoReasons(t *testing.T) {
	svc := BreakthroughService{Catalog: realm.Default()}
	got := svc.CanAttempt(eligiblePlayer(3), testNow)
	if !got.Allowed || len(got.Reasons) != 0 {
		t.Fatalf("expected allowed with no reasons, got %+v", got)
	}

	p := eligiblePlayer(3)
	last := testNow.Add(-61 * time.Minute)
	p.LastBreakthroughAttemptAt = &last
	if got := svc.CanAttempt(p, testNow); !got.Allowed {
		t.Fatalf("cooldown should have expired, got %v", got.Reasons)
	}
}

func TestCanAttempt_MaxRealm(t *testing.T) {
	c := realm.Default()
	svc := BreakthroughService{Catalog: c}
	p := eligiblePlayer(c.Len() - 1)
	got := svc.CanAttempt(p, testNow)
	if got.Allowed || len(got.Reasons) != 1 || got.Reasons[0] != ReasonMaxRealmReached {
		t.Fatalf("expected single max realm reason, got %+v", got)
	}
}

func TestAttempt_RejectedDoesNotMutate(t *testing.T) {
	svc := BreakthroughService{Catalog: realm.Default()}
	p := NewPlayer("p1", testNow, "2026-03-10")
	out := svc.Attempt(p, 0, testNow, &scriptedRandom{outcomes: []bool{true}})
	if out.Attempted || out.Rejection == nil || out.Rejection.Code != CodeNotEligible {
		t.Fatalf("expected not_eligible rejection, got %+v", out)
	}
	if len(out.Rejection.Reasons) == 0 {
		t.Fatalf("rejection must echo reasons")
	}
	if diff := cmp.Diff(p, out.Player); diff != "" {
		t.Fatalf("rejected attempt mutated the record:\n%s", diff)
	}
}

func TestAttempt_Success(t *testing.T) {
	c := realm.Default()
	svc := BreakthroughService{Catalog: c}
	p := eligiblePlayer(2)
	p.Health = 1
	p.Mana = 1

	out := svc.Attempt(p, 0, testNow, &scriptedRandom{outcomes: []bool{true}})
	if !out.Attempted || !out.Success {
		t.Fatalf("expected success, got %+v", out)
	}
	next := out.Player
	if next.RealmIndex != 3 || next.Level != p.Level+1 {
		t.Fatalf("expected realm 3 level %d, got realm %d level %d", p.Level+1, next.RealmIndex, next.Level)
	}
	target, _ := c.ByIndex(3)
	wantGain := StatGain{Health: 65, Mana: 32, Attack: 13, Defense: 10, Speed: 6, Spirit: 3, Power: 260}
	if diff := cmp.Diff(wantGain, *out.StatsGained); diff != "" {
		t.Fatalf("gain mismatch for multiplier %.1f (-want +got):\n%s", target.PowerMultiplier, diff)
	}
	if next.Health != next.MaxHealth || next.Mana != next.MaxMana {
		t.Fatalf("vitals must be restored: %d/%d %d/%d", next.Health, next.MaxHealth, next.Mana, next.MaxMana)
	}
	req, _ := svc.Requirements(2)
	if next.Experience != p.Experience-req.RequiredExperience {
		t.Fatalf("experience must drop by exactly the threshold, got %d", next.Experience)
	}
	if next.Coins != p.Coins-req.Cost.Coins {
		t.Fatalf("coins must drop by the cost, got %d", next.Coins)
	}
	if len(next.BreakthroughHistory) != 1 || !next.BreakthroughHistory[0].Success {
		t.Fatalf("expected one success record, got %+v", next.BreakthroughHistory)
	}
	if out.SuccessRateUsed != 90 {
		t.Fatalf("expected rate 90 (80 base + early bonus), got %d", out.SuccessRateUsed)
	}
	if next.LastBreakthroughAttemptAt == nil || !next.LastBreakthroughAttemptAt.Equal(testNow) {
		t.Fatalf("attempt timestamp not recorded")
	}
}

func TestAttempt_Failure(t *testing.T) {
	svc := BreakthroughService{Catalog: realm.Default()}
	p := eligiblePlayer(5)

	out := svc.Attempt(p, 0, testNow, &scriptedRandom{outcomes: []bool{false}, ints: []int{300, 2}})
	if !out.Attempted || out.Success {
		t.Fatalf("expected failure, got %+v", out)
	}
	next := out.Player
	if next.RealmIndex != p.RealmIndex || next.Level != p.Level {
		t.Fatalf("failure must not change realm or level")
	}
	req, _ := svc.Requirements(5)
	wantLost := LostResources{Coins: 1800, Spirit: 0, Experience: 300}
	if diff := cmp.Diff(wantLost, *out.LostResources); diff != "" {
		t.Fatalf("lost resources mismatch (-want +got):\n%s", diff)
	}
	if next.Coins != p.Coins-req.Cost.Coins-1800 {
		t.Fatalf("unexpected coins: %d", next.Coins)
	}
	if next.Spirit != p.Spirit-req.Cost.Spirit {
		t.Fatalf("unexpected spirit: %d", next.Spirit)
	}
	if next.Experience != p.Experience-req.RequiredExperience-300 {
		t.Fatalf("unexpected experience: %d", next.Experience)
	}
	if out.FailureReason != FailureReasons[2] {
		t.Fatalf("unexpected failure reason %q", out.FailureReason)
	}
	if len(next.BreakthroughHistory) != 1 || next.BreakthroughHistory[0].Success {
		t.Fatalf("expected one failure record")
	}
	if next.MaxHealth != p.MaxHealth || next.Power != p.Power {
		t.Fatalf("failure must not change stats")
	}
}

func TestAttempt_FailurePenaltyNeverNegative(t *testing.T) {
	svc := BreakthroughService{Catalog: realm.Default()}
	p := eligiblePlayer(0)
	p.Experience = 250

	out := svc.Attempt(p, 0, testNow, &scriptedRandom{outcomes: []bool{false}, ints: []int{500, 0}})
	if out.Player.Experience != 0 {
		t.Fatalf("expected experience floored at 0, got %d", out.Player.Experience)
	}
	if out.LostResources.Experience != 50 {
		t.Fatalf("expected actual experience lost 50, got %d", out.LostResources.Experience)
	}
}

func TestAttempt_HistoryCountsEveryAttempt(t *testing.T) {
	svc := BreakthroughService{Catalog: realm.Default()}
	p := eligiblePlayer(8)
	rng := &scriptedRandom{outcomes: []bool{false, true, false}}
	now := testNow
	for i := 0; i < 3; i++ {
		out := svc.Attempt(p, 0, now, rng)
		if !out.Attempted {
			t.Fatalf("attempt %d rejected: %+v", i, out.Rejection)
		}
		p = out.Player
		p.Experience = 1_000_000
		p.Coins = 1_000_000
		p.Spirit = 1_000
		p.Power = 1_000_000
		p.Level = 100
		now = now.Add(BreakthroughCooldown)
	}
	if got := len(p.BreakthroughHistory); got != 3 {
		t.Fatalf("expected 3 history records, got %d", got)
	}
}

func TestAttempt_SpecialRewards(t *testing.T) {
	c := realm.Default()
	svc := BreakthroughService{Catalog: c}

	crossing := svc.Attempt(eligiblePlayer(3), 0, testNow, &scriptedRandom{outcomes: []bool{true}})
	if len(crossing.SpecialRewards) != 1 || crossing.SpecialRewards[0].Kind != RewardCategoryAscension {
		t.Fatalf("expected category ascension reward, got %+v", crossing.SpecialRewards)
	}

	milestone := svc.Attempt(eligiblePlayer(4), 0, testNow, &scriptedRandom{outcomes: []bool{true}})
	if len(milestone.SpecialRewards) != 1 || milestone.SpecialRewards[0].Kind != RewardMilestone {
		t.Fatalf("expected milestone reward, got %+v", milestone.SpecialRewards)
	}
	if milestone.SpecialRewards[0].Coins != 500 {
		t.Fatalf("expected 500 milestone coins, got %d", milestone.SpecialRewards[0].Coins)
	}

	final := svc.Attempt(eligiblePlayer(c.Len()-2), 0, testNow, &scriptedRandom{outcomes: []bool{true}})
	if final.Player.Title != FinalRealmTitle {
		t.Fatalf("expected final title, got %q", final.Player.Title)
	}
	if len(final.SpecialRewards) != 1 || final.SpecialRewards[0].Kind != RewardFinalRealm {
		t.Fatalf("expected final realm reward, got %+v", final.SpecialRewards)
	}

	plain := svc.Attempt(eligiblePlayer(1), 0, testNow, &scriptedRandom{outcomes: []bool{true}})
	if len(plain.SpecialRewards) != 0 {
		t.Fatalf("expected no rewards, got %+v", plain.SpecialRewards)
	}
}
