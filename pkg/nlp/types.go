package nlp

type Action string

const (
	ActionUnknown Action = ""
	ActionTurnOn  Action = "turn_on"
	ActionTurnOff Action = "turn_off"
	ActionDim     Action = "dim"
)

// Command is the structured extraction for a single inbound message.
// It is built fresh per request and never stored.
type Command struct {
	Raw        string `json:"raw"`
	Cleaned    string `json:"cleaned"`
	Room       string `json:"room,omitempty"`
	Action     Action `json:"action,omitempty"`
	Percent    int    `json:"percent"`
	HasPercent bool   `json:"has_percent"`
}

// Item is a named catalog entry that free-text commands are matched against.
type Item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Match struct {
	Item  Item    `json:"item"`
	Score float64 `json:"score"`
	Type  string  `json:"type"` // exact, fuzzy, words
}

type IProcessor interface {
	IsLikelyCommand(text string) bool
	Parse(text string) Command
	ExtractRoom(text string) string
	ExtractAction(text string) Action
	ExtractPercent(text string) (int, bool)
	StripNoise(text string) string
	Similarity(a, b string) float64
	FindBestMatches(command string, items []Item) []Match
}
