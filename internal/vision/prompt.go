// internal/vision/prompt.go
package vision

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mwiater/cryptic/internal/clues"
)

// BuildPrompt asks the model to read every listed answer off the grid.
func BuildPrompt(set clues.ClueSet) string {
	return fmt.Sprintf(`This is a completed cryptic crossword puzzle grid.
Please extract all the answers from the grid.

The puzzle has:
- %d ACROSS clues (numbers: %s)
- %d DOWN clues (numbers: %s)

Please analyze the grid carefully and provide the answers in JSON format:
{
  "across": {
    "1": "ANSWER",
    "5": "ANSWER",
    ...
  },
  "down": {
    "1": "ANSWER",
    "2": "ANSWER",
    ...
  }
}

Important:
- Read each answer carefully from left to right (for ACROSS) and top to bottom (for DOWN)
- The numbered cells indicate where each answer starts
- Multi-word answers should be written as single words without spaces
  (e.g., "RIOBRAVO" not "RIO BRAVO")
- Only include letters, no spaces or punctuation
- Make sure to include ALL answers for all clue numbers listed above`,
		len(set.Across), joinNumbers(set.Numbers(clues.Across)),
		len(set.Down), joinNumbers(set.Numbers(clues.Down)))
}

func joinNumbers(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}
