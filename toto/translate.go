package toto

import (
	"regexp"
	"strings"
	"unicode"
)

// phraseSubstitutions rewrite multi-word Dutch betting phrases whose word-by-
// word translation would come out garbled. Applied before the token pass.
var phraseSubstitutions = []struct {
	pattern     *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`(?i)\bsprint\s+kwalificatie\b`), "Sprint Qualifying"},
	{regexp.MustCompile(`(?i)\bvrije\s+training\b`), "Free Practice"},
	{regexp.MustCompile(`(?i)\bmarge\s+overwinning\b`), "Winning Margin"},
	{regexp.MustCompile(`(?i)\bsnelste\s+ronde\b`), "Fastest Lap"},
	{regexp.MustCompile(`(?i)\bwereld\s+kampioenschap\b`), "World Championship"},
	{regexp.MustCompile(`(?i)\bwereld\s+kampioen\b`), "World Champion"},
	{regexp.MustCompile(`(?i)\beerste\s+uitvaller\b`), "First Retirement"},
	{regexp.MustCompile(`(?i)\blaatste\s+uitvaller\b`), "Last Retirement"},
	{regexp.MustCompile(`(?i)\bbeste\s+team\b`), "Best Team"},
	{regexp.MustCompile(`(?i)\bhoogste?\s+geclassificeerde?\b`), "Highest Classified"},
	{regexp.MustCompile(`(?i)\baantal\s+punten\b`), "Total Points"},
	{regexp.MustCompile(`(?i)\btotaal\s+punten\b`), "Total Points"},
	{regexp.MustCompile(`(?i)\bgrote\s+prijs\b`), "Grand Prix"},
}

// tokenTranslations maps single Dutch betting terms, lowercased and accent-
// folded, to their English display form
var tokenTranslations = map[string]string{
	"winnaar":              "Winner",
	"winnaars":             "Winners",
	"kwalificatie":         "Qualifying",
	"kwalificaties":        "Qualifying",
	"kwalificatieshootout": "Sprint Qualifying",
	"vrij":                 "Free",
	"vrije":                "Free",
	"training":             "Practice",
	"trainingen":           "Practice",
	"sprint":               "Sprint",
	"race":                 "Race",
	"podium":               "Podium",
	"marge":                "Margin",
	"overwinning":          "Win",
	"overwinningen":        "Wins",
	"ronde":                "Lap",
	"rondes":               "Laps",
	"snelste":              "Fastest",
	"eerste":               "First",
	"laatste":              "Last",
	"uitvaller":            "Retirement",
	"uitvallers":           "Retirements",
	"uitvallen":            "Retire",
	"geclassificeerd":      "Classified",
	"geclassificeerde":     "Classified",
	"coureur":              "Driver",
	"coureurs":             "Drivers",
	"rijder":               "Driver",
	"rijders":              "Drivers",
	"constructeur":         "Constructor",
	"constructeurs":        "Constructors",
	"team":                 "Team",
	"teams":                "Teams",
	"wereld":               "World",
	"kampioenschap":        "Championship",
	"kampioen":             "Champion",
	"kampioenen":           "Champions",
	"beste":                "Best",
	"hoogste":              "Highest",
	"hoogst":               "Highest",
	"plaats":               "Place",
	"plaatsen":             "Places",
	"aantal":               "Number of",
	"totaal":               "Total",
	"punten":               "Points",
	"ja":                   "Yes",
	"nee":                  "No",
	"meer":                 "More",
	"minder":               "Less",
	"dan":                  "Than",
	"over":                 "Over",
	"onder":                "Under",
	"boven":                "Over",
	"gelijk":               "Equal",
	"geen":                 "None",
	"beide":                "Both",
	"welke":                "Which",
	"pitstop":              "Pit Stop",
	"pitstops":             "Pit Stops",
	"pit":                  "Pit",
	"stop":                 "Stop",
}

// countryTranslations covers the Grand Prix host names appearing in event
// prefixes
var countryTranslations = map[string]string{
	"bahrein":       "Bahrain",
	"saoedi":        "Saudi",
	"arabie":        "Arabia",
	"saudi":         "Saudi",
	"arabia":        "Arabia",
	"australie":     "Australia",
	"japan":         "Japan",
	"china":         "China",
	"azerbeidzjan":  "Azerbaijan",
	"azerbaijan":    "Azerbaijan",
	"miami":         "Miami",
	"emilia":        "Emilia",
	"romagna":       "Romagna",
	"monaco":        "Monaco",
	"canada":        "Canada",
	"spanje":        "Spain",
	"spain":         "Spain",
	"oostenrijk":    "Austria",
	"oostenrijkse":  "Austrian",
	"oostenrijker":  "Austrian",
	"oostenrijkers": "Austrians",
	"nederland":     "Netherlands",
	"belgie":        "Belgium",
	"italie":        "Italy",
	"hongarije":     "Hungary",
	"groot":         "Great",
	"brittannie":    "Britain",
	"verenigde":     "United",
	"staten":        "States",
	"vs":            "USA",
	"amerika":       "America",
	"qatar":         "Qatar",
	"mexico":        "Mexico",
	"brazilie":      "Brazil",
	"abudhabi":      "Abu Dhabi",
	"abu":           "Abu",
	"dhabi":         "Dhabi",
	"singapore":     "Singapore",
	"las":           "Las",
	"vegas":         "Vegas",
	"silverstone":   "Silverstone",
}

// TranslateToEnglish rewrites known Dutch betting terms in a feed string to
// English for display. Unknown words pass through untouched, so a partially
// translated title is still readable.
func TranslateToEnglish(text string) string {
	if text == "" {
		return ""
	}

	translated := text
	for _, sub := range phraseSubstitutions {
		translated = sub.pattern.ReplaceAllString(translated, sub.replacement)
	}

	var b strings.Builder
	runes := []rune(translated)
	for i := 0; i < len(runes); {
		if !isWordRune(runes[i]) {
			b.WriteRune(runes[i])
			i++
			continue
		}
		j := i
		for j < len(runes) && isWordRune(runes[j]) {
			j++
		}
		b.WriteString(translateToken(string(runes[i:j])))
		i = j
	}
	return b.String()
}

func isWordRune(r rune) bool {
	return r == '\'' || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func translateToken(token string) string {
	key := foldASCII(strings.ToLower(token))
	if replacement, ok := tokenTranslations[key]; ok {
		return replacement
	}
	if replacement, ok := countryTranslations[key]; ok {
		return replacement
	}
	return token
}

// foldASCII folds accented letters to their base form and drops anything
// still outside ASCII, matching how translation keys are normalized
func foldASCII(s string) string {
	var b strings.Builder
	for _, r := range s {
		if folded, ok := accentFolds[r]; ok {
			r = folded
		}
		if r < 128 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FlipCommaName rewrites a feed-style "Lastname, Firstname" selection into
// "Firstname Lastname" for display. Strings without both name parts come
// back unchanged, and surrounding whitespace is preserved.
func FlipCommaName(name string) string {
	head, tail, ok := strings.Cut(name, ",")
	if !ok {
		return name
	}
	last := strings.TrimSpace(head)
	first := strings.TrimSpace(tail)
	if last == "" || first == "" {
		return name
	}

	leading := name[:len(name)-len(strings.TrimLeft(name, " \t"))]
	trailing := name[len(strings.TrimRight(name, " \t")):]
	return leading + first + " " + last + trailing
}
