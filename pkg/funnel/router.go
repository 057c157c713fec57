// Package funnel implements the public rating funnel: the rating router and
// the per-session state machine.
package funnel

import "errors"

// Branch is the funnel path a rating routes to.
type Branch string

const (
	BranchPositive Branch = "positive"
	BranchNegative Branch = "negative"
)

// positiveThreshold is the lowest rating that routes to the positive branch.
const positiveThreshold = 4

// ErrInvalidRating is returned for ratings outside the 1..5 domain.
var ErrInvalidRating = errors.New("rating must be between 1 and 5")

// RouteRating maps a 1..5 rating to a funnel branch. Pure function.
func RouteRating(rating int) (Branch, error) {
	if rating < 1 || rating > 5 {
		return "", ErrInvalidRating
	}

	if rating >= positiveThreshold {
		return BranchPositive, nil
	}

	return BranchNegative, nil
}
