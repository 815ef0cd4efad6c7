package toto

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"bookie/models"

	"golang.org/x/net/html"
)

// dutchOddsPattern matches decimal odds as the feed renders them, with a
// comma decimal separator and optional thousands dots, e.g. "2,50" or
// "1.001,00".
var dutchOddsPattern = regexp.MustCompile(`^\d{1,3}(?:\.\d{3})*,\d{2}$`)

// numericRangePattern blocks range selections like "0.10 - 0.20 Seconds"
// from being mistaken for market titles.
var numericRangePattern = regexp.MustCompile(`^[\d., ]+\s*-\s*[\d., ]`)

// titleKeywords are the substrings that mark a text line as a market title.
// The page carries no structural markers after text extraction, so titles
// are recognized by vocabulary.
var titleKeywords = []string{
	"winnaar", "winning", "top ", "constructor",
	"kwalificatie", "qualification", "race", "sprint",
	"championship", "marge", "margin", "nationality",
	"classified", "first ", "any driver", "number of", "auto ",
}

type marketBlock struct {
	title      string
	selections []selection
}

type selection struct {
	label string
	odds  float64
}

// Parse reads the feed page and extracts one snapshot per market found in
// its visible text
func Parse(r io.Reader) ([]models.MarketSnapshot, error) {
	lines, err := extractLines(r)
	if err != nil {
		return nil, err
	}
	return snapshotsFromLines(lines), nil
}

// extractLines renders the page to its visible text, one normalized
// non-empty line per text node. Script, style and noscript subtrees are
// dropped.
func extractLines(r io.Reader) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed html: %w", err)
	}

	var lines []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			}
		}
		if n.Type == html.TextNode {
			for _, raw := range strings.Split(n.Data, "\n") {
				if line := normalizeSpace(raw); line != "" {
					lines = append(lines, line)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return lines, nil
}

// normalizeSpace trims a line and collapses whitespace runs, including
// non-breaking spaces, into single spaces
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(s, " ", " ")), " ")
}

// parseDutchDecimal converts "1.001,50" to 1001.5
func parseDutchDecimal(s string) (float64, error) {
	normalized := strings.ReplaceAll(s, ".", "")
	normalized = strings.ReplaceAll(normalized, ",", ".")
	return strconv.ParseFloat(normalized, 64)
}

func looksLikeMarketTitle(line string) bool {
	if len(line) > 120 {
		return false
	}
	lower := strings.ToLower(line)
	if numericRangePattern.MatchString(lower) {
		return false
	}
	for _, keyword := range titleKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// extractBlocks walks the text lines pairing each market title with the
// (selection, odds) line pairs that follow it, until the next title starts
// a new block
func extractBlocks(lines []string) []marketBlock {
	var blocks []marketBlock
	var title string
	var selections []selection

	flush := func() {
		if title != "" && len(selections) > 0 {
			blocks = append(blocks, marketBlock{title: title, selections: selections})
		}
		title = ""
		selections = nil
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if title == "" {
			if looksLikeMarketTitle(line) {
				title = line
			}
			continue
		}

		if strings.HasPrefix(strings.ToLower(line), "bekijk meer") {
			continue
		}
		if looksLikeMarketTitle(line) {
			flush()
			title = line
			continue
		}
		if i+1 < len(lines) && dutchOddsPattern.MatchString(lines[i+1]) {
			if odds, err := parseDutchDecimal(lines[i+1]); err == nil {
				selections = append(selections, selection{label: line, odds: odds})
			}
			i++
		}
	}
	flush()

	return blocks
}

// snapshotsFromLines folds market blocks into snapshots. The rendered page
// repeats a market when it shows both a collapsed and an expanded selection
// list, so blocks sharing a canonical key merge; the first occurrence of a
// label wins.
func snapshotsFromLines(lines []string) []models.MarketSnapshot {
	blocks := extractBlocks(lines)

	snapshots := make([]models.MarketSnapshot, 0, len(blocks))
	indexByKey := make(map[string]int, len(blocks))
	seenLabels := make(map[string]map[string]bool, len(blocks))

	for _, block := range blocks {
		key := CanonicalKey(block.title)
		if key == "" {
			continue
		}

		idx, ok := indexByKey[key]
		if !ok {
			eventName, displayName := splitMarketName(block.title)
			snapshots = append(snapshots, models.MarketSnapshot{
				MarketKey:   key,
				DisplayName: TranslateToEnglish(displayName),
				EventName:   TranslateToEnglish(eventName),
				SessionCode: DetermineSessionCode(displayName),
			})
			idx = len(snapshots) - 1
			indexByKey[key] = idx
			seenLabels[key] = make(map[string]bool, len(block.selections))
		}

		for _, sel := range block.selections {
			if seenLabels[key][sel.label] {
				continue
			}
			seenLabels[key][sel.label] = true
			snapshots[idx].Outcomes = append(snapshots[idx].Outcomes, models.OutcomeSnapshot{
				Label: sel.label,
				Odds:  sel.odds,
			})
		}
	}

	return snapshots
}

// splitMarketName splits a raw feed title into its event prefix and market
// part. Toto prefixes race-weekend markets with the event name and a dash,
// e.g. "Grote Prijs van Nederland - Winnaar race". Titles without a prefix
// keep the whole title as the market part.
func splitMarketName(name string) (eventName, displayName string) {
	for _, sep := range []string{" – ", " — ", " - ", ": "} {
		head, tail, ok := strings.Cut(name, sep)
		if !ok {
			continue
		}
		head = strings.TrimSpace(head)
		tail = strings.TrimSpace(tail)
		if head == "" {
			continue
		}
		if tail == "" {
			return head, name
		}
		return head, tail
	}
	return "", name
}

var accentFolds = map[rune]rune{
	'á': 'a', 'à': 'a', 'ä': 'a', 'â': 'a',
	'é': 'e', 'è': 'e', 'ë': 'e', 'ê': 'e',
	'í': 'i', 'ì': 'i', 'ï': 'i', 'î': 'i',
	'ó': 'o', 'ò': 'o', 'ö': 'o', 'ô': 'o',
	'ú': 'u', 'ù': 'u', 'ü': 'u', 'û': 'u',
	'ñ': 'n', 'ç': 'c',
}

// CanonicalKey reduces a feed title or selection to the stable identifier
// markets are tracked under: lowercased, accents folded, everything outside
// [a-z0-9 ] dropped, whitespace collapsed. Keys survive cosmetic retitles
// like punctuation or casing changes.
func CanonicalKey(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(normalizeSpace(name)) {
		if folded, ok := accentFolds[r]; ok {
			r = folded
		}
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			b.WriteRune(r)
		}
	}
	return normalizeSpace(b.String())
}

// DetermineSessionCode maps a market title to the race-weekend session it
// settles on, or "" when none is recognizable. Token lists cover both the
// Dutch feed vocabulary and the English one used after translation.
func DetermineSessionCode(name string) string {
	lower := strings.ToLower(name)
	containsAny := func(tokens ...string) bool {
		for _, token := range tokens {
			if strings.Contains(lower, token) {
				return true
			}
		}
		return false
	}

	switch {
	case containsAny("fp1", "free practice 1"):
		return "FP1"
	case containsAny("fp2", "free practice 2"):
		return "FP2"
	case containsAny("fp3", "free practice 3"):
		return "FP3"
	case containsAny("shootout", "sprint kwal"):
		return "SQ"
	case containsAny("sprint"):
		return "S"
	case containsAny("qual", "kwal", "pole"):
		return "Q"
	case containsAny("race", "grand prix", "gp", "winner"):
		return "R"
	}
	return ""
}
