// Package dialogue implements NPC greetings and the topic system.
package dialogue

import (
	"sort"
	"strings"

	"github.com/nathoo/shmoopland/engine/content"
)

// Greeting returns the greeting the NPC opens with. choose picks among
// several greetings; without it greetings rotate by how often the player
// has talked to the NPC.
func Greeting(npc content.NPC, talks int, choose func(n int) int) (content.Text, bool) {
	n := len(npc.Greetings)
	if n == 0 {
		return content.Text{}, false
	}
	i := talks % n
	if choose != nil && n > 1 {
		i = choose(n)
	}
	if i < 0 || i >= n {
		i = 0
	}
	return npc.Greetings[i], true
}

// Topics returns the topic keys of an NPC, sorted.
func Topics(npc content.NPC) []string {
	keys := make([]string, 0, len(npc.Topics))
	for k := range npc.Topics {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SelectTopic returns the text for a topic. Matching ignores case and treats
// spaces and underscores alike.
func SelectTopic(npc content.NPC, topic string) (string, content.Text, bool) {
	if t, ok := npc.Topics[topic]; ok {
		return topic, t, true
	}
	want := normalize(topic)
	for _, key := range Topics(npc) {
		if normalize(key) == want {
			return key, npc.Topics[key], true
		}
	}
	return "", content.Text{}, false
}

func normalize(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", " ")
}
