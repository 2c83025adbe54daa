package advisory

// Fixed reference block of corn domain knowledge. Embedded in every generated
// context so the narrative model is grounded even when retrieval is down.

const cornGrowthStages = `CORN_GROWTH_STAGES:
- VE-V5 (weeks 18-22): emergence and early vegetative growth; stands establish
- V6-V12 (weeks 22-26): rapid vegetative growth; ear size determined
- VT-R1 (weeks 27-31): tasseling, silking, POLLINATION; most stress-sensitive period
- R2-R4 (weeks 31-35): blister through dough; kernel fill
- R5-R6 (weeks 35-40): dent to physiological maturity`

const criticalThresholds = `CRITICAL_THRESHOLDS:
- Water deficit ≥ 4 mm/day: high water stress; ≥ 6 mm/day: severe
- LST ≥ 35°C: heat stress onset; ≥ 38°C: accelerated kernel abortion risk
- NDVI < 0.5 mid-season: canopy under-performance
- VPD > 2 kPa: atmospheric demand exceeds typical supply
- CSI ≥ 60: SEVERE; CSI ≥ 80: CRITICAL`

const managementOptions = `MANAGEMENT_OPTIONS:
- Irrigation scheduling against daily water deficit
- Delayed nitrogen side-dress under severe stress
- Fungicide timing around VT-R1 where disease pressure adds stress
- Harvest timing and drying strategy when late-season stress shortens fill`

const yieldScience = `YIELD_SCIENCE:
- County yield is driven by cumulative water balance, heat-day counts, and peak canopy (NDVI)
- Pollination-week stress has an outsized, largely irreversible yield impact
- Forecast uncertainty narrows as the season progresses`

// KnowledgeBase returns the reference block by section, as served by the
// /knowledge endpoint.
func KnowledgeBase() map[string]string {
	return map[string]string{
		"corn_growth_stages":  cornGrowthStages,
		"critical_thresholds": criticalThresholds,
		"management_options":  managementOptions,
		"yield_science":       yieldScience,
	}
}
