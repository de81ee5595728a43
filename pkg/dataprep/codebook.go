package dataprep

// Codebooks for the categorical columns of the heart failure export.
var (
	// M: male, F: female.
	SexCodes = OrdinalMap{"M": 0, "F": 1}

	// TA: typical angina, ATA: atypical angina, NAP: non-anginal pain,
	// ASY: asymptomatic.
	ChestPainTypeCodes = OrdinalMap{"TA": 0, "ATA": 1, "NAP": 2, "ASY": 3}

	// ST: ST-T wave abnormality, LVH: probable or definite left
	// ventricular hypertrophy by Estes' criteria.
	RestingECGCodes = OrdinalMap{"Normal": 0, "ST": 1, "LVH": 2}

	ExerciseAnginaCodes = OrdinalMap{"Y": 1, "N": 0}

	// Slope of the peak exercise ST segment.
	STSlopeCodes = OrdinalMap{"Up": 0, "Flat": 1, "Down": 2}
)

// HeartCodebook maps each categorical column to its codes.
func HeartCodebook() map[string]OrdinalMap {
	return map[string]OrdinalMap{
		"Sex":            SexCodes,
		"ChestPainType":  ChestPainTypeCodes,
		"RestingECG":     RestingECGCodes,
		"ExerciseAngina": ExerciseAnginaCodes,
		"ST_Slope":       STSlopeCodes,
	}
}
