package counties

// DefaultBaselineYield is used for counties missing from the registry
// (bu/acre, Iowa state-level trend yield).
const DefaultBaselineYield = 199.2

// County is one row of the county registry. Fips is the 5-character numeric
// identifier; it is stored and compared as an opaque string, never validated
// or coerced.
type County struct {
	Fips          string  `json:"fips"`
	Name          string  `json:"name"`
	BaselineYield float64 `json:"baseline_yield"`
}
