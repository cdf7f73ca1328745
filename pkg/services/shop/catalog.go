package shop

// ItemType groups catalog items by what equipping them does.
type ItemType string

const (
	TypeTheme  ItemType = "theme"
	TypeBoost  ItemType = "boost"
	TypeCar    ItemType = "car"
	TypeTrail  ItemType = "trail"
	TypeTyping ItemType = "typing"
)

// Item is a purchasable catalog entry. Boosts are consumable and can be
// bought repeatedly; everything else is owned once and equipped freely.
type Item struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       int64    `json:"price"`
	Type        ItemType `json:"type"`
	Description string   `json:"description"`

	// Type-specific payloads.
	Accent       string `json:"accent,omitempty"`        // theme
	BoostKey     string `json:"boost_key,omitempty"`     // boost
	BoostCharges int64  `json:"boost_charges,omitempty"` // boost
	CarColor     string `json:"car_color,omitempty"`     // car
	CarName      string `json:"car_name,omitempty"`      // car
	TrailColor   string `json:"trail_color,omitempty"`   // trail
	TypingDur    int    `json:"typing_dur,omitempty"`    // typing
}

// Catalog returns the fixed item list in display order.
func Catalog() []Item {
	return []Item{
		{
			ID: "theme_neon", Name: "Neon Night", Price: 120, Type: TypeTheme,
			Description: "Neon glow interface.",
			Accent:      "#39ffb6",
		},
		{
			ID: "boost_slots_10", Name: "Slots Luck ×10", Price: 140, Type: TypeBoost,
			Description: "Better pair/triple odds for next spins.",
			BoostKey:    "slotLuck", BoostCharges: 10,
		},
		{
			ID: "car_red", Name: "Car: Cherry", Price: 150, Type: TypeCar,
			Description: "Red low-poly skin.",
			CarColor:    "#c6262e", CarName: "Cherry",
		},
		{
			ID: "car_black", Name: "Car: Onyx", Price: 160, Type: TypeCar,
			Description: "Sleek black car.",
			CarColor:    "#111111", CarName: "Onyx",
		},
		{
			ID: "trail_cyan", Name: "Trail: Cyan", Price: 100, Type: TypeTrail,
			Description: "Shiny cyan tire trail.",
			TrailColor:  "#00e5ff",
		},
		{
			ID: "typing_60", Name: "Typing 60s Mode", Price: 90, Type: TypeTyping,
			Description: "Unlock 60s mode permanently.",
			TypingDur:   60,
		},
	}
}
