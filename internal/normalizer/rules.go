package normalizer

import (
	"regexp"
	"strings"
)

// TickerRule is one step of the layered ticker heuristic. Rules are applied
// in order; the first match wins. Heuristic marks rules whose output is a
// guess that must be logged for audit.
type TickerRule struct {
	Name      string
	Heuristic bool
	Apply     func(ticker, tradingName, legalName string) (string, bool)
}

var (
	tickerPattern    = regexp.MustCompile(`^[A-Z]{4}\d{2}$`)
	shortCodePattern = regexp.MustCompile(`^[A-Z]{4,5}$`)
	suffixPattern    = regexp.MustCompile(`(\d{2})\b`)
	letterPattern    = regexp.MustCompile(`[A-Z]+`)
)

// noiseWords are structural words in fund legal names that never contribute
// ticker letters.
var noiseWords = map[string]bool{
	"FII": true, "FDO": true, "FUNDO": true, "DE": true, "DO": true, "DA": true,
	"INV": true, "INVESTIMENTO": true, "IMOB": true, "IMOBILIARIO": true,
	"IMOBILIÁRIO": true, "CI": true, "ER": true, "RESP": true, "LIM": true,
	"LIMITADA": true, "E": true, "EM": true, "COTAS": true, "RENDA": true,
}

// tickerRules is the ordered heuristic table. Each rule is independently
// testable; precedence is the slice order.
var tickerRules = []TickerRule{
	{
		Name: "explicit-ticker",
		Apply: func(ticker, _, _ string) (string, bool) {
			t := canon(ticker)
			if tickerPattern.MatchString(t) {
				return t, true
			}
			return "", false
		},
	},
	{
		Name: "trading-name-ticker",
		Apply: func(_, tradingName, _ string) (string, bool) {
			t := canon(tradingName)
			if tickerPattern.MatchString(t) {
				return t, true
			}
			return "", false
		},
	},
	{
		Name:      "trading-name-code",
		Heuristic: true,
		Apply: func(_, tradingName, _ string) (string, bool) {
			t := canon(tradingName)
			if shortCodePattern.MatchString(t) {
				return t[:4] + "11", true
			}
			return "", false
		},
	},
	{
		Name:      "derived-from-name",
		Heuristic: true,
		Apply: func(_, tradingName, legalName string) (string, bool) {
			name := tradingName
			if name == "" {
				name = legalName
			}
			return deriveTicker(name)
		},
	},
}

// Resolution is the outcome of the ticker heuristic.
type Resolution struct {
	Ticker    string
	Rule      string
	Heuristic bool
}

// ResolveTicker applies the rule table in order. A false return means the
// event must go to the manual-review sink, not be guessed at.
func ResolveTicker(ticker, tradingName, legalName string) (Resolution, bool) {
	for _, rule := range tickerRules {
		if t, ok := rule.Apply(ticker, tradingName, legalName); ok {
			return Resolution{Ticker: t, Rule: rule.Name, Heuristic: rule.Heuristic}, true
		}
	}
	return Resolution{}, false
}

// deriveTicker builds a candidate from the first four letters of the first
// significant word plus initials of the following words, appending the
// numeric suffix found in the name or "11" when none is present.
func deriveTicker(name string) (string, bool) {
	upper := strings.ToUpper(name)

	suffix := "11"
	if m := suffixPattern.FindStringSubmatch(upper); m != nil {
		suffix = m[1]
	}

	var words []string
	for _, w := range strings.Fields(upper) {
		letters := strings.Join(letterPattern.FindAllString(w, -1), "")
		if letters == "" || noiseWords[letters] {
			continue
		}
		words = append(words, letters)
	}
	if len(words) == 0 {
		return "", false
	}

	prefix := words[0]
	if len(prefix) > 4 {
		prefix = prefix[:4]
	}
	for i := 1; len(prefix) < 4 && i < len(words); i++ {
		prefix += words[i][:1]
	}
	if len(prefix) < 4 {
		return "", false
	}

	candidate := prefix + suffix
	if !tickerPattern.MatchString(candidate) {
		return "", false
	}
	return candidate, true
}

func canon(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
