package messaging

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitUnderLimitReturnsInput(t *testing.T) {
	for _, text := range []string{"", "Hi!", "  padded reply.  ", strings.Repeat("a", 40)} {
		assert.Equal(t, []string{text}, Split(text, 40))
	}
	// Rune count, not bytes: 10 Sinhala runes fit a limit of 10.
	sinhala := strings.Repeat("ම", 10)
	assert.Equal(t, []string{sinhala}, Split(sinhala, 10))
}

func TestSplitPacksSentences(t *testing.T) {
	text := "Detox Morning Tea is Rs. 1,090! It is great for cleansing. Want to order? We deliver island-wide."
	chunks := Split(text, 40)

	assert.Equal(t, []string{
		"Detox Morning Tea is Rs. 1,090!",
		"It is great for cleansing.",
		"Want to order? We deliver island-wide.",
	}, chunks)
}

func TestSplitKeepsOversizedSentence(t *testing.T) {
	long := strings.Repeat("x", 30) + "."
	text := "Short one. " + long + " Tail."
	chunks := Split(text, 15)

	require.Len(t, chunks, 3)
	assert.Equal(t, "Short one.", chunks[0])
	assert.Equal(t, long, chunks[1])
	assert.Equal(t, "Tail.", chunks[2])
}

func TestSplitScriptEnders(t *testing.T) {
	text := "පළමු වාක්‍යය। දෙවන වාක්‍යය෴ තුන්වන"
	chunks := Split(text, 16)
	require.Greater(t, len(chunks), 1)
	assert.Equal(t, strings.Fields(text), strings.Fields(strings.Join(chunks, " ")))
}

func TestSplitRoundTrip(t *testing.T) {
	sentences := []string{
		"Herali Cereal comes in Mango, Soursop and Banana.",
		"හෙරලි සීරියල් එක හොඳයි!",
		"இயற்கையான தேநீர்?",
		"Rs. 1,250 only.",
		"Order now!",
	}
	var b strings.Builder
	for i := 0; i < 60; i++ {
		b.WriteString(sentences[i%len(sentences)])
		if i%7 == 0 {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
	}
	text := b.String()

	for _, limit := range []int{20, 64, 100, 500} {
		chunks := Split(text, limit)
		require.NotEmpty(t, chunks)
		assert.Equal(t, strings.Fields(text), strings.Fields(strings.Join(chunks, " ")), "limit %d", limit)
		for _, chunk := range chunks {
			assert.NotEmpty(t, chunk)
			if utf8.RuneCountInString(chunk) > limit {
				// Only a single sentence may exceed the limit.
				assert.Len(t, sentenceUnits(chunk+" "), 1, "limit %d chunk %q", limit, chunk)
			}
		}
	}
}

func TestSentenceUnitsReconstruct(t *testing.T) {
	text := "One. Two!  Three?\nFour"
	units := sentenceUnits(text)
	assert.Equal(t, []string{"One. ", "Two! ", " Three?\n", "Four"}, units)
	assert.Equal(t, text, strings.Join(units, ""))

	// No whitespace after the dot means no boundary.
	assert.Equal(t, []string{"Rs.1,090"}, sentenceUnits("Rs.1,090"))
}

func TestSplitWhitespaceOnly(t *testing.T) {
	assert.Equal(t, []string{""}, Split(strings.Repeat(" ", 20), 5))
}
