package bot

import (
	"fmt"
	"strings"
)

const (
	msgReset           = "Okay, let's start over. Tell me your child's birth date, sex, and a recent height or weight."
	msgBadBirthDate    = "I couldn't read that birth date. Please give it as YYYY-MM-DD, e.g. 2022-03-15."
	msgFutureBirthDate = "That birth date is in the future, so I can't compute an age. Could you double-check it?"
	msgBadSex          = "I couldn't tell whether that was for a boy or a girl. Please say male or female."
	msgBadMeasurement  = "Measurements have to be positive numbers (height in cm, weight in kg)."
)

func measurementLabel(r Result) string {
	switch r.Measurement {
	case "height":
		return fmt.Sprintf("height %.1f cm", r.Value)
	case "weight":
		return fmt.Sprintf("weight %.1f kg", r.Value)
	default:
		return fmt.Sprintf("%s %.1f", r.Measurement, r.Value)
	}
}

// missingPrompt asks for whatever the session still lacks.
func missingPrompt(missing []string) string {
	return fmt.Sprintf("Almost there! I still need: %s.", strings.Join(missing, ", "))
}

// renderSummary is the template reply, also used as the factual input when
// the LLM drafts a friendlier phrasing.
func renderSummary(ageMonths int, results []Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "At %d months old:\n", ageMonths)
	for _, r := range results {
		if r.NoData {
			fmt.Fprintf(&sb, "- %s: no growth-reference data is available for this age.\n",
				measurementLabel(r))
			continue
		}
		fmt.Fprintf(&sb, "- %s is at the %.2f percentile.\n", measurementLabel(r), r.Percentile)
	}
	return strings.TrimRight(sb.String(), "\n")
}
