package storage

// Well-known keys. Every component goes through these constants so the
// persisted layout stays in one place.
const (
	KeyWallet = "wallet" // int64 balance

	KeySlotsBet  = "slots_bet"  // int64, current slots bet
	KeySlotsBest = "slots_best" // int64, best balance reached on slots

	KeyBlackjackBet  = "bj_bet"  // int64, current blackjack bet
	KeyBlackjackBest = "bj_best" // int64, best balance reached on blackjack

	KeyBoosts = "boosts" // map[string]int64, remaining boost charges
	KeyOwned  = "owned"  // []string, purchased item IDs

	KeyAccent         = "accent"      // string, UI accent color
	KeyCarSkin        = "car_skin"    // CarSkin, equipped drift car
	KeyTrailColor     = "trail_color" // string, drift trail color
	KeyTypingDuration = "typingDur"   // int, typing test duration in seconds

	KeyTypingBest = "type_best"  // int, best typing WPM
	KeyMathBest   = "math_best"  // int, best math drill score
	KeyDriftBest  = "drift_best" // int, best drift style score

	KeyFirstRun = "firstRun" // bool, cleared after first launch
)

// BoostSlotLuck is the boosts-map entry counting remaining lucky spins.
const BoostSlotLuck = "slotLuck"

// CarSkin is the equipped drift car preference.
type CarSkin struct {
	Color string `json:"color"`
	Name  string `json:"name"`
}
