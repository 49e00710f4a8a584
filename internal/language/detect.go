// Package language picks the reply language for an inbound message from the
// scripts present in its text.
package language

import "unicode"

// Tag identifies one of the supported reply languages.
type Tag string

const (
	English Tag = "english"
	Sinhala Tag = "sinhala"
	Tamil   Tag = "tamil"
)

// Supported lists every tag in display order.
var Supported = []Tag{English, Sinhala, Tamil}

var (
	sinhalaBlock = &unicode.RangeTable{R16: []unicode.Range16{{Lo: 0x0D80, Hi: 0x0DFF, Stride: 1}}}
	tamilBlock   = &unicode.RangeTable{R16: []unicode.Range16{{Lo: 0x0B80, Hi: 0x0BFF, Stride: 1}}}
)

// Detect classifies text by script. Code-mixed text with Latin letters is
// attributed to the non-Latin script, Sinhala taking precedence over Tamil.
func Detect(text string) Tag {
	var hasSinhala, hasTamil, hasLatin bool
	for _, r := range text {
		switch {
		case unicode.Is(sinhalaBlock, r):
			hasSinhala = true
		case unicode.Is(tamilBlock, r):
			hasTamil = true
		case r < unicode.MaxASCII && unicode.IsLetter(r):
			hasLatin = true
		}
	}

	switch {
	case hasSinhala && hasLatin:
		return Sinhala
	case hasTamil && hasLatin:
		return Tamil
	case hasSinhala:
		return Sinhala
	case hasTamil:
		return Tamil
	default:
		return English
	}
}

// Valid reports whether t is a supported tag.
func (t Tag) Valid() bool {
	switch t {
	case English, Sinhala, Tamil:
		return true
	}
	return false
}

// DisplayName is the name used when instructing the model which language to answer in.
func (t Tag) DisplayName() string {
	switch t {
	case Sinhala:
		return "Sinhala"
	case Tamil:
		return "Tamil"
	default:
		return "English"
	}
}

// OrDefault returns t, or English when t is not supported.
func (t Tag) OrDefault() Tag {
	if t.Valid() {
		return t
	}
	return English
}
