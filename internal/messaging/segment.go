package messaging

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// WhatsAppMessageLimit is the per-message length we stay under. The platform
// allows 4096 characters; the margin absorbs emoji and combining marks.
const WhatsAppMessageLimit = 4000

// sentenceEnders close a sentence in English, Sinhala and Tamil text.
// Sinhala uses the Latin full stop in practice; U+0DF4 is its kunddaliya.
var sentenceEnders = map[rune]bool{
	'.': true,
	'!': true,
	'?': true,
	'।': true, // danda
	'॥': true, // double danda
	'෴': true, // sinhala kunddaliya
}

// Split breaks text into chunks of at most maxLength characters, packing
// whole sentences greedily. Text within the limit comes back unchanged as a
// single chunk. A single sentence longer than maxLength is emitted on its
// own rather than cut mid-sentence. Lengths count runes, not bytes.
func Split(text string, maxLength int) []string {
	if maxLength <= 0 || utf8.RuneCountInString(text) <= maxLength {
		return []string{text}
	}

	var (
		chunks     []string
		current    strings.Builder
		currentLen int
	)
	flush := func() {
		if chunk := strings.TrimSpace(current.String()); chunk != "" {
			chunks = append(chunks, chunk)
		}
		current.Reset()
		currentLen = 0
	}

	for _, unit := range sentenceUnits(text) {
		n := utf8.RuneCountInString(unit)
		if currentLen+n > maxLength && currentLen > 0 {
			flush()
		}
		current.WriteString(unit)
		currentLen += n
	}
	flush()

	if len(chunks) == 0 {
		return []string{strings.TrimSpace(text)}
	}
	return chunks
}

// sentenceUnits cuts text after every sentence ender that is followed by a
// whitespace rune. The whitespace stays with the preceding unit, so joining
// the units reproduces text exactly.
func sentenceUnits(text string) []string {
	var (
		units []string
		start int
		prev  rune
	)
	for i, r := range text {
		if unicode.IsSpace(r) && sentenceEnders[prev] {
			end := i + utf8.RuneLen(r)
			units = append(units, text[start:end])
			start = end
		}
		prev = r
	}
	if start < len(text) {
		units = append(units, text[start:])
	}
	return units
}
