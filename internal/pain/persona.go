package pain

import "fmt"

// Persona is the requester profile pain ranking is weighted for.
type Persona string

const (
	PersonaFounder Persona = "founder"
	PersonaPM      Persona = "pm"
	PersonaDev     Persona = "dev"
	PersonaVC      Persona = "vc"
)

// Personas lists the supported requester profiles.
func Personas() []Persona {
	return []Persona{PersonaFounder, PersonaPM, PersonaDev, PersonaVC}
}

// ValidPersona reports whether p is a supported persona.
func ValidPersona(p Persona) bool {
	switch p {
	case PersonaFounder, PersonaPM, PersonaDev, PersonaVC:
		return true
	}
	return false
}

// personaWeights gives each persona a fixed weight per taxonomy category.
// The weight scales pain and opportunity scores before ranking only; raw
// cluster metrics are untouched.
var personaWeights = map[Persona]map[Category]float64{
	PersonaFounder: {
		Functional: 0.9, Integration: 0.6, Performance: 0.7, UX: 0.8,
		Onboarding: 0.9, Pricing: 1.0, Docs: 0.5, Security: 0.6,
	},
	PersonaPM: {
		Functional: 1.0, Integration: 0.7, Performance: 0.7, UX: 1.0,
		Onboarding: 0.9, Pricing: 0.6, Docs: 0.6, Security: 0.5,
	},
	PersonaDev: {
		Functional: 0.7, Integration: 1.0, Performance: 0.9, UX: 0.5,
		Onboarding: 0.6, Pricing: 0.4, Docs: 1.0, Security: 0.8,
	},
	PersonaVC: {
		Functional: 0.8, Integration: 0.5, Performance: 0.6, UX: 0.6,
		Onboarding: 0.5, Pricing: 0.9, Docs: 0.3, Security: 0.7,
	},
}

// weightFor falls back to a small floor so unknown categories still rank.
func weightFor(p Persona, cat Category) (float64, error) {
	weights, ok := personaWeights[p]
	if !ok {
		return 0, fmt.Errorf("unknown persona %q", p)
	}
	w, ok := weights[cat]
	if !ok {
		return 0.1, nil
	}
	return w, nil
}
