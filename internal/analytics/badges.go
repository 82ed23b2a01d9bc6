package analytics

type BadgeID string

const (
	BadgeSharpshooter BadgeID = "sharpshooter"
	BadgeDeadeye      BadgeID = "deadeye"
	BadgeCenturion    BadgeID = "centurion"
	BadgeFlawless     BadgeID = "flawless"
	BadgeMarathon     BadgeID = "marathon"
)

type Badge struct {
	ID          BadgeID `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
}

var AllBadges = map[BadgeID]Badge{
	BadgeSharpshooter: {ID: BadgeSharpshooter, Name: "Sharpshooter", Description: "25+ hits in a single round"},
	BadgeDeadeye:      {ID: BadgeDeadeye, Name: "Deadeye", Description: "90%+ accuracy over at least 10 shots"},
	BadgeCenturion:    {ID: BadgeCenturion, Name: "Centurion", Description: "100+ points in a single round"},
	BadgeFlawless:     {ID: BadgeFlawless, Name: "Flawless", Description: "20 hits in a row"},
	BadgeMarathon:     {ID: BadgeMarathon, Name: "Marathon", Description: "Survive 3600 frames"},
}

// EvaluateRoundBadges checks which badges a single round earned.
func EvaluateRoundBadges(stats RoundStats) []Badge {
	var earned []Badge

	if stats.Hits >= 25 {
		earned = append(earned, AllBadges[BadgeSharpshooter])
	}

	if stats.Shots() >= 10 && stats.Accuracy >= 90.0 {
		earned = append(earned, AllBadges[BadgeDeadeye])
	}

	if stats.Score >= 100 {
		earned = append(earned, AllBadges[BadgeCenturion])
	}

	if stats.BestStreak >= 20 {
		earned = append(earned, AllBadges[BadgeFlawless])
	}

	// 60 seconds at the default frame rate
	if stats.Frames >= 3600 {
		earned = append(earned, AllBadges[BadgeMarathon])
	}

	return earned
}

// BadgesFromIDs resolves stored ids, skipping any no longer defined.
func BadgesFromIDs(ids []string) []Badge {
	var out []Badge
	for _, id := range ids {
		if b, ok := AllBadges[BadgeID(id)]; ok {
			out = append(out, b)
		}
	}
	return out
}
