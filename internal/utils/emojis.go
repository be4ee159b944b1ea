package utils

// Activities is the catalogue a slot can be set to.
var Activities = []string{
	"Playing", "Reading", "Drawing", "Dancing", "Singing",
	"Math", "Science", "Story Time", "Outdoor Play", "Puzzle",
	"Craft", "Coding", "Yoga", "Music", "Painting",
	"Gardening", "Cooking", "Cleaning", "Helping", "TV Time",
	"Sleeping", "Eating", "Bathing", "Traveling", "Other Fun",
}

var activityEmojis = map[string]string{
	"Playing":      "🧸",
	"Reading":      "📖",
	"Drawing":      "✏️",
	"Dancing":      "💃",
	"Singing":      "🎤",
	"Math":         "➗",
	"Science":      "🔬",
	"Story Time":   "📚",
	"Outdoor Play": "🌳",
	"Puzzle":       "🧩",
	"Craft":        "✂️",
	"Coding":       "💻",
	"Yoga":         "🧘",
	"Music":        "🎵",
	"Painting":     "🎨",
	"Gardening":    "🌱",
	"Cooking":      "🍳",
	"Cleaning":     "🧹",
	"Helping":      "🤝",
	"TV Time":      "📺",
	"Sleeping":     "😴",
	"Eating":       "🍽",
	"Bathing":      "🛁",
	"Traveling":    "🚗",
	"Other Fun":    "🎉",
}

func GetActivityEmoji(name string) string {
	if e, ok := activityEmojis[name]; ok {
		return e
	}
	return "📌"
}

// ActivityIndex returns the catalogue position of name, or -1.
func ActivityIndex(name string) int {
	for i, a := range Activities {
		if a == name {
			return i
		}
	}
	return -1
}

// CycleActivity steps dir places through the catalogue from name, wrapping
// around. Unknown names start from the first entry.
func CycleActivity(name string, dir int) string {
	i := ActivityIndex(name)
	if i < 0 {
		return Activities[0]
	}
	n := len(Activities)
	return Activities[((i+dir)%n+n)%n]
}
