package assignment

// Weights tune how crews are scored against a job's requirements
type Weights struct {
	// Proficiency multiplies the crew's declared proficiency for a fully covered role (1-5 -> 20-100)
	Proficiency float64

	// CapacityBonus is added per spare crew slot beyond the required quantity
	CapacityBonus float64

	// MaxCapacityBonus caps the spare capacity bonus per role
	MaxCapacityBonus float64
}

// DefaultWeights returns the standard crew scoring weights
func DefaultWeights() Weights {
	return Weights{
		Proficiency:      20,
		CapacityBonus:    5,
		MaxCapacityBonus: 15,
	}
}

// maxFit is the ceiling for a crew's per-role fit
const maxFit = 100.0
