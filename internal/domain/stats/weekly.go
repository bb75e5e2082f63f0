package stats

import "sort"

// DayActivity is one bar of the weekly activity chart.
type DayActivity struct {
	Day        string `json:"day"`
	Quizzes    int    `json:"quizzes"`
	Flashcards int    `json:"flashcards"`
	Score      int    `json:"score"`
}

type dayWeight struct {
	day         string
	quizzes     int
	flashcards  int
	scoreOffset int
}

// weekProfile is the typical shape of a study week. The data model has no
// per-day log, so totals are spread over the week using these weights.
var weekProfile = [7]dayWeight{
	{"Mon", 3, 15, -2},
	{"Tue", 2, 12, -9},
	{"Wed", 4, 20, 5},
	{"Thu", 1, 8, 1},
	{"Fri", 5, 25, 8},
	{"Sat", 3, 18, 3},
	{"Sun", 2, 10, 0},
}

// WeeklyActivitySeries approximates a Monday-to-Sunday activity series from
// aggregate counts. Quiz and flashcard counts sum to the given totals.
func WeeklyActivitySeries(attemptCount, learnedCount, overallScore int) []DayActivity {
	var quizWeights, cardWeights [7]int
	for i, w := range weekProfile {
		quizWeights[i] = w.quizzes
		cardWeights[i] = w.flashcards
	}

	quizzes := distribute(attemptCount, quizWeights)
	cards := distribute(learnedCount, cardWeights)

	series := make([]DayActivity, 0, len(weekProfile))
	for i, w := range weekProfile {
		score := 0
		if overallScore > 0 {
			score = min(100, max(0, overallScore+w.scoreOffset))
		}
		series = append(series, DayActivity{
			Day:        w.day,
			Quizzes:    quizzes[i],
			Flashcards: cards[i],
			Score:      score,
		})
	}
	return series
}

// distribute splits total proportionally to weights using the largest
// remainder method, so the parts always add up to total.
func distribute(total int, weights [7]int) [7]int {
	var out [7]int
	if total <= 0 {
		return out
	}

	sum := 0
	for _, w := range weights {
		sum += w
	}

	type rem struct {
		idx  int
		frac int
	}
	rems := make([]rem, 0, len(weights))

	assigned := 0
	for i, w := range weights {
		share := total * w
		out[i] = share / sum
		assigned += out[i]
		rems = append(rems, rem{idx: i, frac: share % sum})
	}

	sort.SliceStable(rems, func(a, b int) bool {
		return rems[a].frac > rems[b].frac
	})
	for i := 0; assigned < total; i++ {
		out[rems[i%len(rems)].idx]++
		assigned++
	}
	return out
}
