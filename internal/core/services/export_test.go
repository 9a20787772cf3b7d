package services

import "time"

func (e *RateEngine) UntilStale() time.Duration {
	return e.untilStale()
}
