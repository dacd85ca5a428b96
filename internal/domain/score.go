package domain

// ComputeAverageScore derives the set's average score from the current
// card states: the percentage of reviewed cards whose latest outcome is
// correct, rounded half up. Cards that have never been reviewed do not
// count; if no card has been reviewed the score is 0.
//
// Rounding is half-up in integer arithmetic: for reviewed > 0 the result
// is (200*correct + reviewed) / (2*reviewed), which equals
// round(100*correct/reviewed) with ties (.5) rounding toward 100.
//
// The derivation is a full scan over the cards. Sets are small (tens to
// low hundreds of cards), so recomputing on every review event is cheaper
// than maintaining incremental tallies that could drift.
func ComputeAverageScore(cards []Card) int {
	reviewed := 0
	correct := 0
	for i := range cards {
		switch cards[i].Correctness {
		case CorrectnessCorrect:
			reviewed++
			correct++
		case CorrectnessIncorrect:
			reviewed++
		}
	}

	if reviewed == 0 {
		return 0
	}

	return (200*correct + reviewed) / (2 * reviewed)
}
