// Package intent gates inbound messages so only shop questions reach the model.
package intent

import "regexp"

// Label names the off-topic category a message matched.
type Label string

const (
	LabelArithmetic    Label = "arithmetic"
	LabelCalculation   Label = "calculation"
	LabelHumor         Label = "humor"
	LabelPolitics      Label = "politics"
	LabelCooking       Label = "cooking"
	LabelWeather       Label = "weather"
	LabelNews          Label = "news"
	LabelSports        Label = "sports"
	LabelEntertainment Label = "entertainment"
	LabelStorytelling  Label = "storytelling"
)

// Rule is one off-topic pattern. Patterns match anywhere in the message.
type Rule struct {
	Label   Label
	Pattern *regexp.Regexp
}

// Decision is the outcome of classifying a message.
type Decision struct {
	OnTopic bool
	// Label is set to the first matching rule when OnTopic is false.
	Label Label
}

// Classifier decides whether a message belongs to the shop domain.
type Classifier interface {
	Classify(text string) Decision
}

// DefaultRules are evaluated in order; the first match wins.
var DefaultRules = []Rule{
	{LabelArithmetic, regexp.MustCompile(`(?i)what is \d+[+\-*/]\d+`)},
	{LabelCalculation, regexp.MustCompile(`(?i)calculate|solve|math|equation`)},
	{LabelHumor, regexp.MustCompile(`(?i)joke|funny|laugh|comedy`)},
	{LabelPolitics, regexp.MustCompile(`(?i)president|minister|election|politics|government`)},
	{LabelCooking, regexp.MustCompile(`(?i)recipe|cooking|bake|how to cook`)},
	{LabelWeather, regexp.MustCompile(`(?i)weather|temperature|forecast|rain`)},
	{LabelNews, regexp.MustCompile(`(?i)news|breaking|headline`)},
	{LabelSports, regexp.MustCompile(`(?i)sport|football|cricket|game score|match`)},
	{LabelEntertainment, regexp.MustCompile(`(?i)movie|film|actor|actress|cinema`)},
	{LabelStorytelling, regexp.MustCompile(`(?i)tell me a story|once upon a time`)},
}

// PatternClassifier rejects any message matching one of its rules.
type PatternClassifier struct {
	rules []Rule
}

// NewPatternClassifier builds a classifier over rules. Nil rules means DefaultRules.
func NewPatternClassifier(rules []Rule) *PatternClassifier {
	if rules == nil {
		rules = DefaultRules
	}
	return &PatternClassifier{rules: rules}
}

// Classify reports the first off-topic rule text matches, if any.
func (c *PatternClassifier) Classify(text string) Decision {
	for _, rule := range c.rules {
		if rule.Pattern.MatchString(text) {
			return Decision{OnTopic: false, Label: rule.Label}
		}
	}
	return Decision{OnTopic: true}
}

// IsOnTopic is shorthand for Classify(text).OnTopic.
func (c *PatternClassifier) IsOnTopic(text string) bool {
	return c.Classify(text).OnTopic
}
