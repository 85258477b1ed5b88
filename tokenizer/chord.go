package tokenizer

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/width"
)

var (
	rootPattern = regexp.MustCompile(`^([A-G][#b]?)`)
	no3dPattern = regexp.MustCompile(`(?i)no3d`)

	accidentals = strings.NewReplacer("♯", "#", "♭", "b")
	lower       = cases.Lower(language.Und)

	flatToSharp = map[string]string{
		"Db": "C#",
		"Eb": "D#",
		"Gb": "F#",
		"Ab": "G#",
		"Bb": "A#",
	}

	qualityAliases = map[string]string{
		"":           "maj",
		"m":          "min",
		"min":        "min",
		"minor":      "min",
		"maj":        "maj",
		"major":      "maj",
		"dim":        "dim",
		"diminished": "dim",
		"aug":        "aug",
		"augmented":  "aug",
		"sus":        "sus",
		"sus4":       "sus4",
		"sus2":       "sus2",
		"add9":       "add9",
		"add11":      "add11",
		"add13":      "add13",
	}
)

// NormalizeRoot maps a flat root onto its enharmonic sharp.
func NormalizeRoot(root string) string {
	if sharp, ok := flatToSharp[root]; ok {
		return sharp
	}
	return root
}

// NormalizeChord normalizes a single chord symbol. It reports false when the
// symbol has no recognizable root.
func (t *ChordTokenizer) NormalizeChord(symbol string) (string, bool) {
	symbol = strings.TrimSpace(width.Fold.String(accidentals.Replace(symbol)))
	if symbol == "" {
		return "", false
	}

	symbol = no3dPattern.ReplaceAllString(symbol, "")

	bass := ""
	if head, tail, found := strings.Cut(symbol, "/"); found {
		symbol = head
		if t.opts.keepSlashBass {
			if m := rootPattern.FindString(tail); m != "" {
				bass = "/" + NormalizeRoot(m)
			}
		}
	}

	m := rootPattern.FindString(symbol)
	if m == "" {
		return "", false
	}
	root := NormalizeRoot(m)
	quality := normalizeQuality(strings.TrimSpace(symbol[len(m):]))

	if quality == "maj" && !t.opts.keepMajor {
		return root + bass, true
	}
	return root + quality + bass, true
}

// normalizeQuality collapses a chord quality onto the fixed set used by the
// model. Seventh chords win over everything else, then dim, aug, sus and add.
func normalizeQuality(q string) string {
	switch {
	case strings.Contains(q, "maj7") || strings.Contains(q, "M7"):
		return "maj7"
	case strings.Contains(q, "min7") || strings.Contains(q, "m7"):
		return "min7"
	case strings.Contains(q, "7"):
		return "7"
	case strings.Contains(q, "dim"):
		return "dim"
	case strings.Contains(q, "aug"):
		return "aug"
	case strings.Contains(q, "sus"):
		switch {
		case strings.Contains(q, "sus4"):
			return "sus4"
		case strings.Contains(q, "sus2"):
			return "sus2"
		}
		return "sus"
	case strings.Contains(q, "add"):
		for _, ext := range []string{"add9", "add11", "add13"} {
			if strings.Contains(q, ext) {
				return ext
			}
		}
		return "add"
	case q == "M":
		// upper-case M is major, lower-case m is minor
		return "maj"
	}

	folded := lower.String(q)
	if alias, ok := qualityAliases[folded]; ok {
		return alias
	}
	return folded
}
