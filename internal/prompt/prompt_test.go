package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prepmate/interview-server-go/internal/model"
)

func TestOpening(t *testing.T) {
	profile := model.CandidateProfile{
		Skills:     []string{"Go", "Postgres"},
		Experience: "2 years",
		Role:       "Backend Engineer",
	}

	system, user := Opening(profile)

	assert.Contains(t, system, "Role: Backend Engineer")
	assert.Contains(t, system, "Experience: 2 years")
	assert.Contains(t, system, "ONE challenging technical interview question")
	assert.Contains(t, user, "Candidate Resume Data:")
	assert.Contains(t, user, `"Postgres"`)
}

func TestEvaluation(t *testing.T) {
	session := &model.LiveSession{
		History: []model.Turn{
			{Role: model.TurnRoleInterviewer, Content: "Explain indexing."},
			{Role: model.TurnRoleCandidate, Content: "B-trees."},
			{Role: model.TurnRoleInterviewer, Content: "When do they degrade?"},
		},
		Profile: model.CandidateProfile{Role: "Backend Engineer", Experience: "2 years"},
	}

	system, user := Evaluation(session, "Under heavy random writes.")

	assert.Contains(t, system, "Backend Engineer")
	assert.Contains(t, system, "2 years")
	assert.Contains(t, system, `"nextQuestion"`)
	assert.Contains(t, system, "Return ONLY the JSON object")

	assert.Contains(t, user, "Interviewer: Explain indexing.")
	assert.Contains(t, user, "Candidate: B-trees.")
	assert.Contains(t, user, "Candidate's Last Answer: Under heavy random writes.")

	// history appears in order
	idx1 := strings.Index(user, "Explain indexing.")
	idx2 := strings.Index(user, "When do they degrade?")
	assert.Less(t, idx1, idx2)
}
