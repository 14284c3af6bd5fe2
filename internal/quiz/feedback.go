package quiz

// Feedback is the message shown with a final score.
type Feedback struct {
	Emoji   string `json:"emoji"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// ScoreFeedback picks a message for score out of total. A higher
// percentage never gets a lower tier.
func ScoreFeedback(score, total int) Feedback {
	// at reports whether score/total reaches pct percent.
	at := func(pct int) bool { return total > 0 && score*100 >= pct*total }

	switch {
	case at(100):
		return Feedback{Emoji: "🏆", Title: "Perfect!", Message: "You got every question right!"}
	case at(80):
		return Feedback{Emoji: "🌟", Title: "Excellent!", Message: "You really know your biases!"}
	case at(60):
		return Feedback{Emoji: "👍", Title: "Good job!", Message: "You're building solid knowledge."}
	case at(40):
		return Feedback{Emoji: "📚", Title: "Keep learning!", Message: "Review the biases you missed."}
	default:
		return Feedback{Emoji: "💪", Title: "Practice more!", Message: "Try viewing more biases first."}
	}
}
