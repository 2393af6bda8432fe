package domain

// SpreadType identifies the number and labeling of cards in one reading.
type SpreadType string

const (
	SpreadThreeCard SpreadType = "three_card"
	SpreadGeneric   SpreadType = "generic"
)

// MajorArcana is the fixed set of card names a reading draws from.
var MajorArcana = [...]string{
	"The Fool",
	"The Magician",
	"The High Priestess",
	"The Empress",
	"The Emperor",
	"The Hierophant",
	"The Lovers",
	"The Chariot",
	"Strength",
	"The Hermit",
	"Wheel of Fortune",
	"Justice",
	"The Hanged Man",
	"Death",
	"Temperance",
	"The Devil",
	"The Tower",
	"The Star",
	"The Moon",
	"The Sun",
	"Judgement",
	"The World",
}

// DrawnCard is a card placed in a spread.
type DrawnCard struct {
	Name      string `json:"name"`
	IsUpright bool   `json:"is_upright"`
	Position  string `json:"position"`
}

func (c DrawnCard) Orientation() string {
	if c.IsUpright {
		return "upright"
	}
	return "reversed"
}

// Label is the card name, marked when reversed.
func (c DrawnCard) Label() string {
	if c.IsUpright {
		return c.Name
	}
	return c.Name + " (reversed)"
}
