package agents

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/maheshrc27/ghostwriter/internal/transfer"
)

const (
	OutputMaster    = "master"
	OutputFacebook  = "facebook"
	OutputWordPress = "wordpress"
	OutputInstagram = "instagram"
)

// CycleChannels lists the outputs of a full cycle in response order.
var CycleChannels = []string{OutputMaster, OutputFacebook, OutputWordPress, OutputInstagram}

const cyclePrompt = "Run one full GhostWriter cycle: detect trends, create content for " +
	"TikTok, Instagram, YouTubeShort, and LinkedIn, publish (mock or real), " +
	"and evaluate the performance. Brand topic: %s."

const cycleOutputContract = "When the cycle is done, end your answer with one JSON object with the string keys " +
	`"master" (a channel-neutral post), "facebook", "wordpress" (HTML allowed) and "instagram".`

func CyclePrompt(topic, tone string) string {
	var b strings.Builder
	fmt.Fprintf(&b, cyclePrompt, topic)
	if tone = strings.TrimSpace(tone); tone != "" {
		fmt.Fprintf(&b, " Write in a %s tone.", tone)
	}
	b.WriteString("\n")
	b.WriteString(cycleOutputContract)
	return b.String()
}

// ExtractCycleOutputs returns the non-empty channel texts of the last JSON
// object in text that carries any of CycleChannels, including objects nested
// in a wrapper. Nothing usable yields an empty map.
func ExtractCycleOutputs(text string) map[string]string {
	found := map[string]string{}

	for i := 0; i < len(text); i++ {
		if text[i] != '{' {
			continue
		}
		dec := json.NewDecoder(strings.NewReader(text[i:]))
		var obj map[string]any
		if err := dec.Decode(&obj); err != nil {
			continue
		}

		candidate := map[string]string{}
		for _, ch := range CycleChannels {
			if s, ok := obj[ch].(string); ok && strings.TrimSpace(s) != "" {
				candidate[ch] = strings.TrimSpace(s)
			}
		}
		// Only a match is skipped whole; wrappers are scanned into.
		if len(candidate) > 0 {
			found = candidate
			i += int(dec.InputOffset()) - 1
		}
	}

	return found
}

// FallbackOutput is the deterministic text used for a channel the agents
// did not deliver.
func FallbackOutput(channel, topic, tone string) string {
	topic = strings.TrimSpace(topic)
	toneNote := ""
	if tone = strings.TrimSpace(tone); tone != "" {
		toneNote = fmt.Sprintf(" (%s tone)", tone)
	}

	switch channel {
	case OutputFacebook:
		return fmt.Sprintf("Let's talk about %s! Here is what we are seeing right now and why it matters to you. What's your take? Share it in the comments.", topic)
	case OutputWordPress:
		return fmt.Sprintf("<h2>%s: what you need to know</h2>\n<p>%s is moving fast. This post covers the current trends, what they mean for you, and one practical step to take this week.</p>", topic, topic)
	case OutputInstagram:
		return fmt.Sprintf("%s, in one scroll. Save this for later and tell us what you think below.\n\n%s", topic, hashtags(topic))
	default:
		return fmt.Sprintf("%s%s: the trends worth watching, why they matter, and how to act on them today.", topic, toneNote)
	}
}

// ParseCycleOutputs fills every channel, preferring what the agents produced.
func ParseCycleOutputs(text, topic, tone string) transfer.CycleOutputs {
	found := ExtractCycleOutputs(text)
	for _, ch := range CycleChannels {
		if _, ok := found[ch]; !ok {
			found[ch] = FallbackOutput(ch, topic, tone)
		}
	}
	return BuildOutputs(found)
}

func BuildOutputs(m map[string]string) transfer.CycleOutputs {
	return transfer.CycleOutputs{
		Master:    m[OutputMaster],
		Facebook:  m[OutputFacebook],
		WordPress: m[OutputWordPress],
		Instagram: m[OutputInstagram],
	}
}

func hashtags(topic string) string {
	var tags []string
	for _, w := range strings.Fields(topic) {
		w = strings.Trim(strings.ToLower(w), ",.;:!?&")
		if w == "" || len(tags) == 5 {
			continue
		}
		tags = append(tags, "#"+w)
	}
	return strings.Join(append(tags, "#ghostwriter"), " ")
}
