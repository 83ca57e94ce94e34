package scorer

import (
	"github.com/Borislavv/go-ash-bloom/model"
	"go.uber.org/ratelimit"
)

// Throttled caps the prediction rate of a remote or expensive model.
// Predict blocks until the limiter lets the call through.
type Throttled struct {
	next    Scorer
	limiter ratelimit.Limiter
}

// NewThrottled allows perSec predictions per second with a burst of 10% of
// the rate (at least one).
// perSec <= 0 returns next unchanged.
func NewThrottled(next Scorer, perSec int) Scorer {
	if perSec <= 0 {
		return next
	}
	slack := perSec / 10
	if slack < 1 {
		slack = 1
	}
	return &Throttled{next: next, limiter: ratelimit.New(perSec, ratelimit.WithSlack(slack))}
}

func (t *Throttled) Predict(data *model.Data) (float64, error) {
	t.limiter.Take()
	return t.next.Predict(data)
}
