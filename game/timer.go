package game

import "time"

// Timer is the handle of a running periodic tick source.
type Timer interface {
	C() <-chan time.Time
	Stop()
}

// TimerFactory starts a periodic timer firing every interval.
type TimerFactory func(interval time.Duration) Timer

type tickerTimer struct {
	ticker *time.Ticker
}

// NewTicker is the wall-clock TimerFactory.
func NewTicker(interval time.Duration) Timer {
	return &tickerTimer{ticker: time.NewTicker(interval)}
}

func (t *tickerTimer) C() <-chan time.Time {
	return t.ticker.C
}

func (t *tickerTimer) Stop() {
	t.ticker.Stop()
}
