package analysis

// ThresholdStatus is the closed set of outcomes for the crossover solver.
type ThresholdStatus string

const (
	StatusCrosses      ThresholdStatus = "crosses"
	StatusAlwaysAbove  ThresholdStatus = "always_above"
	StatusNeverReaches ThresholdStatus = "never_reaches"
	StatusInsufficient ThresholdStatus = "insufficient"
)

// LearningTier labels how safe a champion is to pick with little mastery.
type LearningTier string

const (
	LearningSafeBlindPick LearningTier = "Safe Blind Pick"
	LearningLowRisk       LearningTier = "Low Risk"
	LearningModerate      LearningTier = "Moderate"
	LearningHighRisk      LearningTier = "High Risk"
	LearningAvoid         LearningTier = "Avoid"
)

// MasteryTier labels how much sustained investment pays off.
type MasteryTier string

const (
	MasteryExceptional      MasteryTier = "Exceptional Payoff"
	MasteryHighPayoff       MasteryTier = "High Payoff"
	MasteryModeratePayoff   MasteryTier = "Moderate Payoff"
	MasteryLowPayoff        MasteryTier = "Low Payoff"
	MasteryNotWorthLearning MasteryTier = "Not Worth Mastering"
)

// PickupTier classifies the early learning-curve slope in percentage points.
type PickupTier string

const (
	PickupEasy     PickupTier = "Easy Pickup"
	PickupMild     PickupTier = "Mild Pickup"
	PickupHard     PickupTier = "Hard Pickup"
	PickupVeryHard PickupTier = "Very Hard Pickup"
)

// GrowthType classifies long-term win-rate growth.
type GrowthType string

const (
	GrowthPlateau   GrowthType = "Plateau"
	GrowthGradual   GrowthType = "Gradual"
	GrowthContinual GrowthType = "Continual"
)

// DifficultyLabel is the extra label attached to dynamic bucket stats.
type DifficultyLabel string

const (
	DifficultyInstantlyViable DifficultyLabel = "Instantly Viable"
	DifficultyNeverViable     DifficultyLabel = "Never Viable"
	DifficultyExtremelyHard   DifficultyLabel = "Extremely Hard to Learn"
)

// learningTierFor maps a learning score to its tier.
func learningTierFor(score float64) LearningTier {
	switch {
	case score > 0:
		return LearningSafeBlindPick
	case score > -5:
		return LearningLowRisk
	case score > -15:
		return LearningModerate
	case score > -25:
		return LearningHighRisk
	default:
		return LearningAvoid
	}
}

// masteryTierFor maps a mastery score to its tier.
func masteryTierFor(score float64) MasteryTier {
	switch {
	case score > 8:
		return MasteryExceptional
	case score > 5:
		return MasteryHighPayoff
	case score > 2:
		return MasteryModeratePayoff
	case score > 0:
		return MasteryLowPayoff
	default:
		return MasteryNotWorthLearning
	}
}

// pickupTierFor maps the early slope (pp) to its tier.
func pickupTierFor(earlySlope float64) PickupTier {
	switch {
	case earlySlope < 2:
		return PickupEasy
	case earlySlope < 5:
		return PickupMild
	case earlySlope < 8:
		return PickupHard
	default:
		return PickupVeryHard
	}
}

// growthTypeFor maps the late slope (pp) to its growth classification.
func growthTypeFor(lateSlope float64) GrowthType {
	switch {
	case lateSlope < 0.5:
		return GrowthPlateau
	case lateSlope < 1.5:
		return GrowthGradual
	default:
		return GrowthContinual
	}
}
