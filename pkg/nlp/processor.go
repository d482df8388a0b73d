package nlp

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type processor struct {
	rooms      []string
	indicators []string
	noiseWords []string
	threshold  float64
}

var percentPattern = regexp.MustCompile(`(\d+)\s*(%|prosent|percent)?`)

// New builds the command processor with the fixed Norwegian vocabulary.
func New() IProcessor {
	return &processor{
		// Vocabulary order matters: first room found wins.
		rooms: []string{"stue", "kjokken", "soverom", "gang", "bad"},
		indicators: []string{
			// Device nouns
			"lys", "taklys", "lampe", "lamper", "belysning", "stuelys",
			// Action verbs
			"sla pa", "sla av", "skru pa", "skru av",
			"dimme", "dim", "dimming", "juster", "endre", "sett",
			// Rooms
			"stue", "stuen", "kjokken", "kjokkenet", "soverom",
			// Short commands
			"av", "pa", "ned", "opp",
			// Flow words
			"flow", "flows", "flyt", "automation", "automatisering",
			"kjor", "kjore", "start", "aktiver", "trigger", "rutine",
			"vis flows", "liste flows", "list flows",
		},
		noiseWords: []string{
			"kan du", "vaer sa snill", "er det mulig", "jeg vil", "gjerne",
			"start", "kjor", "kjore", "aktiver", "trigger", "flow", "automation",
			"pa", "i", "og", "som", "heter",
		},
		threshold: 0.7,
	}
}

// IsLikelyCommand is the cheap pre-filter run on every inbound message.
// It only decides whether the dispatcher is worth consulting at all.
func (p *processor) IsLikelyCommand(text string) bool {
	cleaned := p.cleanText(text)

	if m := percentPattern.FindStringSubmatch(cleaned); m != nil && m[2] != "" {
		return true
	}

	words := " " + cleaned + " "
	for _, indicator := range p.indicators {
		if strings.Contains(words, " "+indicator+" ") {
			return true
		}
	}
	return false
}

func (p *processor) Parse(text string) Command {
	percent, hasPercent := p.ExtractPercent(text)
	return Command{
		Raw:        text,
		Cleaned:    p.cleanText(text),
		Room:       p.ExtractRoom(text),
		Action:     p.ExtractAction(text),
		Percent:    percent,
		HasPercent: hasPercent,
	}
}

func (p *processor) ExtractRoom(text string) string {
	cleaned := p.cleanText(text)
	for _, room := range p.rooms {
		if strings.Contains(cleaned, room) {
			return room
		}
	}
	return ""
}

// ExtractAction resolves the action with a fixed precedence: explicit
// dim/percentage cues first, then on, then off. A command carrying both
// "pa" and "40%" is a dim command; the percentage is the stronger signal.
func (p *processor) ExtractAction(text string) Action {
	cleaned := p.cleanText(text)
	words := " " + cleaned + " "

	hasAny := func(tokens ...string) bool {
		for _, t := range tokens {
			if strings.Contains(words, " "+t+" ") {
				return true
			}
		}
		return false
	}

	if _, ok := p.ExtractPercent(text); ok {
		return ActionDim
	}
	if hasAny("dim", "dimme", "demp") {
		return ActionDim
	}
	if hasAny("pa", "tenn") {
		return ActionTurnOn
	}
	if hasAny("av", "slukk", "slokk") {
		return ActionTurnOff
	}
	return ActionUnknown
}

// ExtractPercent returns the first numeric token, clamped to [0,100].
// The "%"/"prosent" suffix is optional; "dim til 40" still reads as 40.
func (p *processor) ExtractPercent(text string) (int, bool) {
	cleaned := p.cleanText(text)
	m := percentPattern.FindStringSubmatch(cleaned)
	if m == nil {
		return 0, false
	}

	value := 0
	for _, r := range m[1] {
		value = value*10 + int(r-'0')
		if value > 100 {
			return 100, true
		}
	}
	return value, true
}

// StripNoise removes filler phrases so that only the words naming the
// target are left ("kan du kjøre kveldsrutine" -> "kveldsrutine").
func (p *processor) StripNoise(text string) string {
	cleaned := " " + p.cleanText(text) + " "
	for _, word := range p.noiseWords {
		cleaned = strings.ReplaceAll(cleaned, " "+word+" ", " ")
	}
	return strings.Join(strings.Fields(cleaned), " ")
}

// cleanText lowercases, strips diacritics and folds æ/ø/å so the rest of
// the pipeline matches on plain ASCII. "%" survives as a separate token.
func (p *processor) cleanText(text string) string {
	text = strings.ToLower(text)
	text = strings.NewReplacer("æ", "ae", "ø", "o", "å", "a").Replace(text)

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, text); err == nil {
		text = folded
	}

	text = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || r == '%' {
			return r
		}
		return ' '
	}, text)

	return strings.Join(strings.Fields(text), " ")
}
