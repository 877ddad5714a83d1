package normalize

import (
	"strings"

	"github.com/tidwall/gjson"
)

// ExtractionRule pulls a candidate translation out of a JSON object.
// ok is false when the rule does not apply to the object at all.
// A Fallback rule only runs when no named field matched.
type ExtractionRule struct {
	Name     string
	Fallback bool
	Extract  func(root gjson.Result) (value string, ok bool)
}

// TranslationRules is the ordered rule set applied to translate responses.
// The first rule yielding a non-empty string wins; a named field that is
// present but empty makes the body an empty result.
var TranslationRules = []ExtractionRule{
	fieldRule("translatedText"),
	fieldRule("translation"),
	fieldRule("result"),
	{Name: "first-value", Fallback: true, Extract: firstStringValue},
}

func fieldRule(field string) ExtractionRule {
	return ExtractionRule{
		Name: field,
		Extract: func(root gjson.Result) (string, bool) {
			v := root.Get(gjson.Escape(field))
			if v.Type != gjson.String {
				return "", false
			}
			return v.Str, true
		},
	}
}

func firstStringValue(root gjson.Result) (string, bool) {
	var (
		value string
		found bool
	)
	root.ForEach(func(_, v gjson.Result) bool {
		if v.Type == gjson.String {
			value, found = v.Str, true
			return false
		}
		return true
	})
	return value, found
}

// TranslatedText applies TranslationRules to a JSON object body
func TranslatedText(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", unparseable("invalid JSON")
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return "", unparseable("expected JSON object, got %s", root.Type)
	}

	var matched []string
	for _, rule := range TranslationRules {
		if rule.Fallback && len(matched) > 0 {
			break
		}
		value, ok := rule.Extract(root)
		if !ok {
			continue
		}
		if strings.TrimSpace(value) != "" {
			return value, nil
		}
		matched = append(matched, rule.Name)
	}

	if len(matched) > 0 {
		return "", empty("empty translation in %s", strings.Join(matched, ", "))
	}
	return "", unparseable("no translation field found")
}

// SegmentedTranslation joins the translated segments of the public Google
// endpoint format: [[["seg", "src", ...], ...], ...].
func SegmentedTranslation(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", unparseable("invalid JSON")
	}
	root := gjson.ParseBytes(body)
	segments := root.Get("0")
	if !root.IsArray() || !segments.IsArray() {
		return "", unparseable("expected nested segment array")
	}

	var b strings.Builder
	for _, seg := range segments.Array() {
		if part := seg.Get("0"); part.Type == gjson.String {
			b.WriteString(part.Str)
		}
	}

	text := b.String()
	if strings.TrimSpace(text) == "" {
		return "", empty("no translated segments")
	}
	return text, nil
}
