package domain

// ReactionEmojis is the closed reaction vocabulary. Treated as configuration:
// the six values mirror the product's reaction picker.
var ReactionEmojis = []string{"👍", "❤️", "😂", "😮", "😢", "🙏"}

func ValidEmoji(emoji string) bool {
	for _, e := range ReactionEmojis {
		if e == emoji {
			return true
		}
	}
	return false
}
