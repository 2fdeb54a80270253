package models

// TestOutcome - направление, определённое тестом.
type TestOutcome string

const (
	OutcomeDeveloper TestOutcome = "developer"
	OutcomeDesigner  TestOutcome = "designer"
)

func (o TestOutcome) Valid() bool {
	return o == OutcomeDeveloper || o == OutcomeDesigner
}

// Milestone is a one-time point-earning action guarded by a flag on the progress row.
type Milestone string

const (
	MilestoneTest Milestone = "test"
	MilestoneGame Milestone = "game"
)

// Progress хранит баланс очков участника и пройденные этапы.
// test_outcome может быть выставлен независимо от test_done (после пропуска теста).
type Progress struct {
	ID          int          `json:"id" db:"id"`
	UserID      int          `json:"user_id" db:"user_id"`
	Points      int          `json:"points" db:"points"`
	TestDone    bool         `json:"completed_test" db:"test_done"`
	TestOutcome *TestOutcome `json:"test_result" db:"test_outcome"`
	GameDone    bool         `json:"completed_game" db:"game_done"`
}

// Has reports whether the milestone guard is already set.
func (p *Progress) Has(m Milestone) bool {
	switch m {
	case MilestoneTest:
		return p.TestDone
	case MilestoneGame:
		return p.GameDone
	}
	return false
}
