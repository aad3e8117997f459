package cards

import "fmt"

// NumIDs is the number of distinct card ids.
const NumIDs = 40

// Well-known card ids.
const (
	IDDarkBlue        = 0
	IDBrown           = 1
	IDLightGreen      = 2
	IDGreen           = 3
	IDLightBlue       = 4
	IDRed             = 5
	IDYellow          = 6
	IDOrange          = 7
	IDPink            = 8
	IDBlack           = 9
	IDLightGreenBlack = 10
	IDRedYellow       = 11
	IDBrownLightBlue  = 12
	IDPinkOrange      = 13
	IDBlackLightBlue  = 14
	IDGreenBlack      = 15
	IDGreenDarkBlue   = 16
	IDWildProperty    = 17
	IDHouse           = 18
	IDHotel           = 19
	IDDoubleRent      = 20
	IDForcedDeal      = 21
	IDDebtCollector   = 22
	IDSlyDeal         = 23
	IDBirthday        = 24
	IDPassGo          = 25
	IDDealBreaker     = 26
	IDJustSayNo       = 27
	IDRentRedYellow   = 28
	IDRentGreenBlue   = 29
	IDRentPinkOrange  = 30
	IDRentBlackGreen  = 31
	IDRentBrownBlue   = 32
	IDRentWild        = 33
	IDMoney1          = 34
	IDMoney2          = 35
	IDMoney3          = 36
	IDMoney4          = 37
	IDMoney5          = 38
	IDMoney10         = 39
)

// definitions is indexed by card id.
var definitions = [NumIDs]Card{
	{ID: IDDarkBlue, Name: "Dark Blue Property", Value: 4, Kind: KindProperty, Colours: []Colour{DarkBlue}},
	{ID: IDBrown, Name: "Brown Property", Value: 1, Kind: KindProperty, Colours: []Colour{Brown}},
	{ID: IDLightGreen, Name: "Light Green Property", Value: 2, Kind: KindProperty, Colours: []Colour{LightGreen}},
	{ID: IDGreen, Name: "Green Property", Value: 4, Kind: KindProperty, Colours: []Colour{Green}},
	{ID: IDLightBlue, Name: "Light Blue Property", Value: 1, Kind: KindProperty, Colours: []Colour{LightBlue}},
	{ID: IDRed, Name: "Red Property", Value: 3, Kind: KindProperty, Colours: []Colour{Red}},
	{ID: IDYellow, Name: "Yellow Property", Value: 3, Kind: KindProperty, Colours: []Colour{Yellow}},
	{ID: IDOrange, Name: "Orange Property", Value: 2, Kind: KindProperty, Colours: []Colour{Orange}},
	{ID: IDPink, Name: "Pink Property", Value: 2, Kind: KindProperty, Colours: []Colour{Pink}},
	{ID: IDBlack, Name: "Black Property", Value: 2, Kind: KindProperty, Colours: []Colour{Black}},
	{ID: IDLightGreenBlack, Name: "Light Green/Black Property", Value: 2, Kind: KindProperty, Colours: []Colour{LightGreen, Black}},
	{ID: IDRedYellow, Name: "Red/Yellow Property", Value: 3, Kind: KindProperty, Colours: []Colour{Red, Yellow}},
	{ID: IDBrownLightBlue, Name: "Brown/Light Blue Property", Value: 1, Kind: KindProperty, Colours: []Colour{Brown, LightBlue}},
	{ID: IDPinkOrange, Name: "Pink/Orange Property", Value: 2, Kind: KindProperty, Colours: []Colour{Pink, Orange}},
	{ID: IDBlackLightBlue, Name: "Black/Light Blue Property", Value: 4, Kind: KindProperty, Colours: []Colour{Black, LightBlue}},
	{ID: IDGreenBlack, Name: "Green/Black Property", Value: 4, Kind: KindProperty, Colours: []Colour{Green, Black}},
	{ID: IDGreenDarkBlue, Name: "Green/Dark Blue Property", Value: 4, Kind: KindProperty, Colours: []Colour{Green, DarkBlue}},
	{ID: IDWildProperty, Name: "Wild Property", Value: 0, Kind: KindProperty, Colours: []Colour{Wild}},
	{ID: IDHouse, Name: "House", Value: 3, Kind: KindAction},
	{ID: IDHotel, Name: "Hotel", Value: 4, Kind: KindAction},
	{ID: IDDoubleRent, Name: "Double The Rent", Value: 1, Kind: KindAction},
	{ID: IDForcedDeal, Name: "Forced Deal", Value: 3, Kind: KindAction},
	{ID: IDDebtCollector, Name: "Debt Collector", Value: 3, Kind: KindAction},
	{ID: IDSlyDeal, Name: "Sly Deal", Value: 3, Kind: KindAction},
	{ID: IDBirthday, Name: "It's My Birthday", Value: 2, Kind: KindAction},
	{ID: IDPassGo, Name: "Pass Go", Value: 1, Kind: KindAction},
	{ID: IDDealBreaker, Name: "Deal Breaker", Value: 5, Kind: KindAction},
	{ID: IDJustSayNo, Name: "Just Say No", Value: 4, Kind: KindAction},
	{ID: IDRentRedYellow, Name: "Red/Yellow Rent", Value: 1, Kind: KindRent, Colours: []Colour{Red, Yellow}},
	{ID: IDRentGreenBlue, Name: "Green/Dark Blue Rent", Value: 1, Kind: KindRent, Colours: []Colour{Green, DarkBlue}},
	{ID: IDRentPinkOrange, Name: "Pink/Orange Rent", Value: 1, Kind: KindRent, Colours: []Colour{Pink, Orange}},
	{ID: IDRentBlackGreen, Name: "Black/Light Green Rent", Value: 1, Kind: KindRent, Colours: []Colour{Black, LightGreen}},
	{ID: IDRentBrownBlue, Name: "Brown/Light Blue Rent", Value: 1, Kind: KindRent, Colours: []Colour{Brown, LightBlue}},
	{ID: IDRentWild, Name: "Wild Rent", Value: 3, Kind: KindRent, Colours: []Colour{Wild}},
	{ID: IDMoney1, Name: "1M", Value: 1, Kind: KindMoney},
	{ID: IDMoney2, Name: "2M", Value: 2, Kind: KindMoney},
	{ID: IDMoney3, Name: "3M", Value: 3, Kind: KindMoney},
	{ID: IDMoney4, Name: "4M", Value: 4, Kind: KindMoney},
	{ID: IDMoney5, Name: "5M", Value: 5, Kind: KindMoney},
	{ID: IDMoney10, Name: "10M", Value: 10, Kind: KindMoney},
}

// ByID returns the definition for a card id.
func ByID(id int) (Card, error) {
	if id < 0 || id >= NumIDs {
		return Card{}, fmt.Errorf("unknown card id %d", id)
	}
	return definitions[id], nil
}

// MustByID is ByID for ids known at compile time.
func MustByID(id int) Card {
	card, err := ByID(id)
	if err != nil {
		panic(err)
	}
	return card
}

// Catalog names accepted by ByName.
const (
	CatalogStandard = "standard"
	CatalogFull     = "full"
)

// Catalog is a named multiset of card instances forming a deck.
type Catalog struct {
	Name  string
	cards []Card
}

// Size returns the number of card instances in the catalog.
func (c *Catalog) Size() int {
	return len(c.cards)
}

// Cards returns a fresh copy of the catalog's instances in definition order.
func (c *Catalog) Cards() []Card {
	out := make([]Card, len(c.cards))
	copy(out, c.cards)
	return out
}

// Count returns how many instances of id the catalog holds.
func (c *Catalog) Count(id int) int {
	n := 0
	for _, card := range c.cards {
		if card.ID == id {
			n++
		}
	}
	return n
}

// Standard returns the 40-card catalog holding one instance of every id.
func Standard() *Catalog {
	out := make([]Card, 0, NumIDs)
	for _, def := range definitions {
		out = append(out, def)
	}
	return &Catalog{Name: CatalogStandard, cards: out}
}

// fullCounts is the multiplicity of each id in the full deck.
var fullCounts = map[int]int{
	IDDarkBlue: 2, IDBrown: 2, IDLightGreen: 2, IDGreen: 3, IDLightBlue: 3,
	IDRed: 3, IDYellow: 3, IDOrange: 3, IDPink: 3, IDBlack: 4,
	IDLightGreenBlack: 1, IDRedYellow: 2, IDBrownLightBlue: 1, IDPinkOrange: 2,
	IDBlackLightBlue: 1, IDGreenBlack: 1, IDGreenDarkBlue: 1, IDWildProperty: 2,
	IDHouse: 3, IDHotel: 2, IDDoubleRent: 2, IDForcedDeal: 3, IDDebtCollector: 3,
	IDSlyDeal: 3, IDBirthday: 3, IDPassGo: 8, IDDealBreaker: 2, IDJustSayNo: 3,
	IDRentRedYellow: 2, IDRentGreenBlue: 2, IDRentPinkOrange: 2, IDRentBlackGreen: 2,
	IDRentBrownBlue: 2, IDRentWild: 3,
	IDMoney1: 6, IDMoney2: 5, IDMoney3: 3, IDMoney4: 3, IDMoney5: 2, IDMoney10: 1,
}

// Full returns the 104-card catalog with the multiplicities of the printed game.
func Full() *Catalog {
	out := make([]Card, 0, 104)
	for _, def := range definitions {
		for i := 0; i < fullCounts[def.ID]; i++ {
			out = append(out, def)
		}
	}
	return &Catalog{Name: CatalogFull, cards: out}
}

// ByName resolves a catalog by its configuration name.
func ByName(name string) (*Catalog, error) {
	switch name {
	case "", CatalogStandard:
		return Standard(), nil
	case CatalogFull:
		return Full(), nil
	default:
		return nil, fmt.Errorf("unknown catalog %q", name)
	}
}
