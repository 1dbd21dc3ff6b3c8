package pain

import "regexp"

// Category is one of the eight pain taxonomy buckets.
type Category string

const (
	Functional  Category = "Functional"
	Integration Category = "Integration"
	Performance Category = "Performance"
	UX          Category = "UX"
	Onboarding  Category = "Onboarding"
	Pricing     Category = "Pricing"
	Docs        Category = "Docs"
	Security    Category = "Security"
)

// Categories lists the taxonomy in canonical order. Pattern matching walks
// this order, so a mention's primary category is stable.
var Categories = []Category{Functional, Integration, Performance, UX, Onboarding, Pricing, Docs, Security}

// painPatterns holds the detection regexes per category. A text may match
// several categories; clustering uses the first.
var painPatterns = map[Category][]*regexp.Regexp{
	Functional: {
		regexp.MustCompile(`(?i)doesn't work|not working|broken|missing feature|can't do|unable to`),
		regexp.MustCompile(`(?i)need.*feature|wish.*had|would love.*to`),
		regexp.MustCompile(`(?i)lacks|doesn't have|no way to|impossible to`),
	},
	Integration: {
		regexp.MustCompile(`(?i)api.*fail|integration.*broken|doesn't connect`),
		regexp.MustCompile(`(?i)sync.*issue|compatibility.*problem|won't work with`),
		regexp.MustCompile(`(?i)webhook.*down|third.*party.*error`),
	},
	Performance: {
		regexp.MustCompile(`(?i)slow|laggy|takes forever|timeout|crashes`),
		regexp.MustCompile(`(?i)performance.*issue|speed.*problem|hangs|freezes`),
		regexp.MustCompile(`(?i)memory.*leak|cpu.*high|resource.*usage`),
	},
	UX: {
		regexp.MustCompile(`(?i)confusing|hard to use|complicated|unintuitive`),
		regexp.MustCompile(`(?i)user.*experience|ux.*terrible|design.*bad`),
		regexp.MustCompile(`(?i)navigation.*mess|interface.*clunky`),
	},
	Onboarding: {
		regexp.MustCompile(`(?i)setup.*difficult|getting started.*hard|onboarding.*sucks`),
		regexp.MustCompile(`(?i)documentation.*poor|tutorial.*missing|no guidance`),
		regexp.MustCompile(`(?i)first.*time.*user|new.*user.*confused`),
	},
	Pricing: {
		regexp.MustCompile(`(?i)too expensive|overpriced|pricing.*high|can't afford`),
		regexp.MustCompile(`(?i)billing.*issue|payment.*problem|subscription.*confusing`),
		regexp.MustCompile(`(?i)free.*tier.*limited|need.*cheaper.*option`),
	},
	Docs: {
		regexp.MustCompile(`(?i)documentation.*bad|docs.*outdated|no examples`),
		regexp.MustCompile(`(?i)help.*section.*useless|support.*articles.*missing`),
		regexp.MustCompile(`(?i)readme.*incomplete|wiki.*empty`),
	},
	Security: {
		regexp.MustCompile(`(?i)security.*concern|privacy.*issue|data.*breach`),
		regexp.MustCompile(`(?i)authentication.*broken|login.*problem|access.*denied`),
		regexp.MustCompile(`(?i)encryption.*weak|vulnerable.*to`),
	},
}

var complaintPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)frustrated|annoyed|disappointed|hate|terrible`),
	regexp.MustCompile(`(?i)problem|issue|bug|error|fail`),
	regexp.MustCompile(`(?i)why.*doesn't|how.*broken|what.*wrong`),
}

var questionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(how|why|what|when|where|which|can|should|is there)\b`),
	regexp.MustCompile(`\?\s*$`),
}

// detectCategories returns every category whose patterns match text, in
// canonical order.
func detectCategories(text string) []Category {
	var matched []Category
	for _, cat := range Categories {
		for _, re := range painPatterns[cat] {
			if re.MatchString(text) {
				matched = append(matched, cat)
				break
			}
		}
	}
	return matched
}

func matchesAny(text string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
