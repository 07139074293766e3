package genai

import (
	"fmt"
	"strings"
)

// SimpleExplanationPrompt asks for a short coach-style explanation of a
// pick given the draft state.
func SimpleExplanationPrompt(champion string, allies, enemies []string) string {
	allyStr := "None"
	if len(allies) > 0 {
		allyStr = strings.Join(allies, ", ")
	}
	enemyStr := "None"
	if len(enemies) > 0 {
		enemyStr = strings.Join(enemies, ", ")
	}

	return strings.TrimSpace(fmt.Sprintf(`
You are a professional League of Legends coach.
Your task is to explain why picking %s is the best strategic choice given the current draft.

Current State:
- Ally Team: %s
- Enemy Team: %s

Requirements:
1. Focus on synergies with allies and counters to enemies.
2. Keep the explanation concise (under 50 words).
3. Use a professional, analytical tone.

Explanation:`, champion, allyStr, enemyStr))
}
