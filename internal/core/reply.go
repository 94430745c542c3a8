package core

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// DefaultExplanation is used when the completion omits one.
const DefaultExplanation = "Calorie estimate based on workout type, duration, and intensity."

// firstNumber matches the first decimal run of digits in free text.
var firstNumber = regexp.MustCompile(`\d+(?:\.\d+)?`)

// ParseReply turns a raw completion into an Estimate.
//
// The reply is read as strict JSON first. If it is not JSON at all, the first
// run of digits is taken as the calorie figure and the raw text becomes the
// explanation. This fallback is best-effort: a reply like "3 sets, about 250
// calories" yields 3.
func ParseReply(raw string) (*Estimate, error) {
	text := stripFences(strings.TrimSpace(raw))

	if !gjson.Valid(text) || !gjson.Parse(text).IsObject() {
		return parseFallback(raw)
	}

	reply := gjson.Parse(text)
	cal := reply.Get("calories")
	if !cal.Exists() {
		return nil, Errorf(KindResponseValidation, "Invalid response from AI: missing calories")
	}
	if cal.Type != gjson.Number {
		return nil, &Error{
			Kind:    KindResponseValidation,
			Message: "Invalid response from AI: calories is not a number",
			Details: cal.Raw,
		}
	}
	if cal.Float() < 0 {
		return nil, &Error{
			Kind:    KindResponseValidation,
			Message: "Invalid response from AI: calories must not be negative",
			Details: cal.Raw,
		}
	}
	if math.Round(cal.Float()) > MaxCalories {
		return nil, &Error{
			Kind:    KindResponseValidation,
			Message: "Invalid response from AI: calories out of range",
			Details: cal.Raw,
		}
	}

	explanation := strings.TrimSpace(reply.Get("explanation").String())
	if explanation == "" {
		explanation = DefaultExplanation
	}

	return &Estimate{
		Calories:    int(math.Round(cal.Float())),
		Explanation: explanation,
	}, nil
}

func parseFallback(raw string) (*Estimate, error) {
	match := firstNumber.FindString(raw)
	if match == "" {
		return nil, &Error{
			Kind:    KindParse,
			Message: "Failed to parse AI response",
			Details: truncate(raw, 200),
		}
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return nil, &Error{Kind: KindParse, Message: "Failed to parse AI response", Details: match, Err: err}
	}
	if math.Round(v) > MaxCalories {
		return nil, &Error{Kind: KindParse, Message: "Failed to parse AI response: number out of range", Details: truncate(match, 200)}
	}

	return &Estimate{
		Calories:    int(math.Round(v)),
		Explanation: raw,
		Fallback:    true,
	}, nil
}

// stripFences removes a surrounding markdown code fence, if any.
func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
