package entities

// Shuffler randomizes n elements in place via swap. rng.Generator
// satisfies it; tests may substitute a deterministic arrangement.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Deck is an ordered sequence of cards. A fresh deck holds the 52 unique
// rank and suit combinations.
type Deck struct {
	Cards []Card
}

// NewDeck creates a new deck of 52 cards, one of each rank and suit, in
// construction order (unshuffled).
func NewDeck() *Deck {
	cards := make([]Card, 0, 52)
	for _, suit := range Suits {
		for _, rank := range Ranks {
			cards = append(cards, Card{Suit: suit, Rank: rank})
		}
	}
	return &Deck{Cards: cards}
}

// Shuffle randomizes the deck order using the supplied shuffler.
func (d *Deck) Shuffle(s Shuffler) {
	s.Shuffle(len(d.Cards), func(i, j int) {
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	})
}

// Draw removes and returns the top card from the deck. The boolean is
// false when the deck is empty.
func (d *Deck) Draw() (Card, bool) {
	if len(d.Cards) == 0 {
		return Card{}, false
	}
	card := d.Cards[0]
	d.Cards = d.Cards[1:]
	return card, true
}

// Remaining returns the number of cards left in the deck.
func (d *Deck) Remaining() int {
	return len(d.Cards)
}
