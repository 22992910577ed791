// Package prompt builds the fixed interviewer-persona prompts. All
// conversational state is re-sent as prompt context on every call; the
// provider adapters hold none.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/prepmate/interview-server-go/internal/model"
)

// Opening returns the prompt pair that generates the single opening
// question for a candidate profile.
func Opening(profile model.CandidateProfile) (system, user string) {
	system = fmt.Sprintf(`You are a strict senior technical interviewer. You will conduct a professional technical interview.
Based on the candidate's resume (Role: %s, Experience: %s), generate ONE challenging technical interview question to start the interview.
Adjust the difficulty and depth based on their experience level. Keep the question concise and professional.`,
		profile.Role, profile.Experience)

	data, _ := json.Marshal(profile)
	user = fmt.Sprintf("Candidate Resume Data: %s", data)
	return system, user
}

// Evaluation returns the prompt pair that scores the latest answer and
// produces the next question, embedding the full turn history.
func Evaluation(session *model.LiveSession, answer string) (system, user string) {
	system = fmt.Sprintf(`You are a strict senior technical interviewer. Evaluate the candidate's answer to your previous question based on:
- Correctness
- Clarity
- Communication
- Depth
- Confidence
- Completeness

Maintain the interview flow. If the candidate's answer is good, you can dive deeper or move to a new topic. If it's poor, give critical feedback.
The candidate's role is %s with %s of experience.

Provide your response in JSON format with these exact keys:
1. "feedback": string (Concise, professional feedback)
2. "nextQuestion": string (The next technical question or follow-up)
3. "score": number (Integer between 1 and 10 based on the quality of their answer)
4. "strengths": array of strings
5. "improvement": string (How they can do better)

Return ONLY the JSON object. No markdown, no extra text.`,
		session.Profile.Role, session.Profile.Experience)

	user = fmt.Sprintf("Interview History so far:\n%s\n\nCandidate's Last Answer: %s\n\nEvaluate and provide the next question.",
		formatHistory(session.History), answer)
	return system, user
}

func formatHistory(history []model.Turn) string {
	lines := make([]string, 0, len(history))
	for _, turn := range history {
		speaker := "Candidate"
		if turn.Role == model.TurnRoleInterviewer {
			speaker = "Interviewer"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", speaker, turn.Content))
	}
	return strings.Join(lines, "\n")
}
