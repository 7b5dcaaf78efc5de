// internal/generator/config.go
package generator

// Tier selects a generation strategy of increasing contextual depth.
type Tier string

const (
	TierBasic         Tier = "basic"         // profile only
	TierContextual    Tier = "contextual"    // profile + job description
	TierComprehensive Tier = "comprehensive" // profile + job description + org context
)

// Difficulty is an ordinal level interpolated into the prompt. It never
// changes the code path.
type Difficulty string

const (
	DifficultyNovice       Difficulty = "novice"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyProfessional Difficulty = "professional"
	DifficultyExpert       Difficulty = "expert"
)

// questionCounts maps a test duration in minutes to how many questions of
// each kind the prompt asks for.
type questionCounts struct {
	Open int
	MCQ  int
}

var durationCounts = map[int]questionCounts{
	30: {Open: 4, MCQ: 5},
	60: {Open: 8, MCQ: 10},
}

var difficultyDescriptions = map[Difficulty]string{
	DifficultyNovice:       "Basic concepts, simple explanations expected",
	DifficultyIntermediate: "Solid understanding, some depth required",
	DifficultyProfessional: "Professional level, thorough answers expected",
	DifficultyExpert:       "Expert level, deep technical knowledge required",
}

// tierConfig is the declarative per-tier table consulted by the one shared
// generation routine. Tiers differ only in inputs and prompt parameters.
type tierConfig struct {
	HighlightCap int    // max technical highlights fed into the prompt
	RequiresJD   bool   // MissingJobDescription when no JD supplied
	UsesContext  bool   // include organization context in the prompt
	Focus        string // one-line prompt directive for question selection
}

var tierConfigs = map[Tier]tierConfig{
	TierBasic: {
		HighlightCap: 3,
		Focus:        "Choose relevant questions from the candidate's profile. Stick to fundamental technical concepts.",
	},
	TierContextual: {
		HighlightCap: 5,
		RequiresJD:   true,
		Focus:        "Reference specific requirements from the job description. Mix fundamental and intermediate concepts with practical application.",
	},
	TierComprehensive: {
		HighlightCap: 5,
		RequiresJD:   true,
		UsesContext:  true,
		Focus:        "Reference specific job description requirements and the organization context. Make questions progressively harder, covering both depth and breadth.",
	},
}

// Tiers lists every supported tier with its requirements, served by the tier
// info endpoint.
func Tiers() map[Tier]TierInfo {
	return map[Tier]TierInfo{
		TierBasic:         {Requirements: []string{"profile_text"}},
		TierContextual:    {Requirements: []string{"profile_text", "jd_text"}},
		TierComprehensive: {Requirements: []string{"profile_text", "jd_text", "context (optional)"}},
	}
}

type TierInfo struct {
	Requirements []string `json:"requirements"`
}

// Durations lists the supported test durations in minutes.
func Durations() []int {
	return []int{30, 60}
}

// Difficulties lists the supported difficulty levels in ascending order.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyNovice, DifficultyIntermediate, DifficultyProfessional, DifficultyExpert}
}
