package bot

import (
	"encoding/json"
	"fmt"

	"github.com/mroth/weightedrand/v2"
)

var defaultLabels = map[string]map[string]int{
	UniqueHome:         {"🏠 Home": 1},
	UniqueClaim:        {"🎁 Claim": 3, "🎁 Daily claim": 1},
	UniqueDeposit:      {"📥 Deposit": 1},
	UniqueTasks:        {"🐬 Tasks": 3, "🐬 Earn with tasks": 1},
	UniqueSubmitTask:   {"✅ I did it": 1, "✅ Submit": 1},
	UniqueHistory:      {"📜 History": 1},
	UniqueClearHistory: {"🧹 Clear": 1},
	UniqueSettings:     {"⚙️ Settings": 1},
	UniqueRevealKey:    {"🔑 Private Key": 1},
	UniqueAdmin:        {"🛠 Admin Panel": 1},
	UniqueFrens:        {"💁 Frens": 2, "💁 Invite frens": 1},
	labelBack:          {"🔙 Back": 1},
	labelAcceptAll:     {"✅ Accept all": 1},
	labelDeclineAll:    {"❌ Decline all": 1},
	labelOpenLink:      {"🔗 Open": 1},
}

// Labels picks a display text per button key on every render. The text never
// takes part in dispatch.
type Labels struct {
	choosers map[string]*weightedrand.Chooser[string, int]
}

// ParseLabels builds Labels from the defaults overridden by raw, a JSON object
// of {key: {text: weight}}. An empty raw keeps the defaults.
func ParseLabels(raw string) (*Labels, error) {
	variants := map[string]map[string]int{}
	for k, v := range defaultLabels {
		variants[k] = v
	}

	if raw != "" {
		overrides := map[string]map[string]int{}
		if err := json.Unmarshal([]byte(raw), &overrides); err != nil {
			return nil, fmt.Errorf("parse button labels: %w", err)
		}
		for k, v := range overrides {
			variants[k] = v
		}
	}

	labels := &Labels{choosers: map[string]*weightedrand.Chooser[string, int]{}}
	for key, texts := range variants {
		choices := make([]weightedrand.Choice[string, int], 0, len(texts))
		for text, weight := range texts {
			choices = append(choices, weightedrand.NewChoice(text, weight))
		}

		chooser, err := weightedrand.NewChooser(choices...)
		if err != nil {
			return nil, fmt.Errorf("button %s: %w", key, err)
		}
		labels.choosers[key] = chooser
	}

	return labels, nil
}

func (labels *Labels) Pick(key string) string {
	chooser, ok := labels.choosers[key]
	if !ok {
		return key
	}
	return chooser.Pick()
}
