package messaging

import "github.com/wolfman30/naturesvirtue-bot/internal/language"

// SupportPhone is the human contact channel named in every fallback notice.
const SupportPhone = "+94750912066"

// offTopicMessages is the canned reply for questions outside the shop's products.
var offTopicMessages = map[language.Tag]string{
	language.English: "I can only help with Nature's Virtue products. What are you looking for today? 🌿",
	language.Sinhala: "මට Nature's Virtue එකේ නිෂ්පාදන ගැන විතරයි උදව් කරන්න පුළුවන්. ඔබට ඕනේ මොනවද? 🌿",
	language.Tamil:   "என்னால் Nature's Virtue தயாரிப்புகள் பற்றி மட்டுமே உதவ முடியும். உங்களுக்கு என்ன வேண்டும்? 🌿",
}

var errorMessages = map[language.Tag]string{
	language.English: "Sorry, something went wrong. Please WhatsApp us at " + SupportPhone + " or call us! 🙏",
	language.Sinhala: "සමාවන්න, යම් ගැටළුවක් ඇති වුනා. කරුණාකර " + SupportPhone + " අමතන්න! 🙏",
	language.Tamil:   "மன்னிக்கவும், ஏதோ தவறு நடந்தது. தயவுசெய்து " + SupportPhone + " அழைக்கவும்! 🙏",
}

// textOnlyMessages answer images, voice notes, stickers and other non-text messages.
var textOnlyMessages = map[language.Tag]string{
	language.English: "I can only read text messages. Please send your question as text! 😊",
	language.Sinhala: "මට text messages විතරයි කියවන්න පුළුවන්. කරුණාකර text එකක් යවන්න! 😊",
	language.Tamil:   "என்னால் text messages மட்டுமே படிக்க முடியும். தயவுசெய்து text அனுப்பவும்! 😊",
}

// OffTopicMessage returns the off-topic reply in lang, or English.
func OffTopicMessage(lang language.Tag) string {
	return localized(offTopicMessages, lang)
}

// ErrorMessage returns the generic failure notice in lang, or English.
func ErrorMessage(lang language.Tag) string {
	return localized(errorMessages, lang)
}

// TextOnlyMessage returns the unsupported-type notice in lang, or English.
func TextOnlyMessage(lang language.Tag) string {
	return localized(textOnlyMessages, lang)
}

func localized(table map[language.Tag]string, lang language.Tag) string {
	if msg, ok := table[lang]; ok {
		return msg
	}
	return table[language.English]
}
