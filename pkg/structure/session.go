package structure

import (
	"time"

	"github.com/tradewindlabs/smcbt/pkg/indicator"
	"github.com/tradewindlabs/smcbt/pkg/types"
)

const bandwidthHistorySize = 100

// Session windows, in UTC hours. The trading day is anchored at 00:00
// UTC: the session VWAP, opening range and Asian range all reset there.
const (
	asianEndHour     = 6
	londonOpenHour   = 7
	londonCloseHour  = 10
	newYorkOpenHour  = 12
	newYorkCloseHour = 15
	openingRangeEnd  = 1
)

// SessionState holds the running aggregates the session-aware variants
// read: opening range, Asian range, prior-day range, anchored VWAP,
// Bollinger bandwidth history and the shared LTF averages. Everything is
// recomputed once per LTF candle, never per signal evaluation.
type SessionState struct {
	VWAP indicator.SessionVWAP
	Boll *indicator.BOLL

	VolumeSMA *indicator.SMA
	EMA9      *indicator.EWMA
	EMA21     *indicator.EWMA
	EMA50     *indicator.EWMA

	OpeningRangeHigh float64
	OpeningRangeLow  float64
	OpeningRangeSet  bool

	AsianHigh float64
	AsianLow  float64
	AsianSet  bool

	PriorSessionHigh float64
	PriorSessionLow  float64
	PriorSessionSet  bool

	currentDay time.Time

	dayHigh, dayLow   float64
	orHigh, orLow     float64
	asiaHigh, asiaLow float64

	bandwidthHistory types.Float64Slice
}

func NewSessionState() *SessionState {
	return &SessionState{
		Boll:      indicator.NewBOLL(20, 2),
		VolumeSMA: indicator.NewSMA(20),
		EMA9:      indicator.NewEWMA(9),
		EMA21:     indicator.NewEWMA(21),
		EMA50:     indicator.NewEWMA(50),
	}
}

// Update folds one LTF candle into the session aggregates.
func (s *SessionState) Update(c types.Candle) {
	t := c.StartTime.UTC()
	day := t.Truncate(24 * time.Hour)

	if !day.Equal(s.currentDay) {
		s.rollDay(day)
	}

	s.VWAP.Update(c)

	if s.dayHigh == 0 || c.High > s.dayHigh {
		s.dayHigh = c.High
	}
	if s.dayLow == 0 || c.Low < s.dayLow {
		s.dayLow = c.Low
	}

	hour := t.Hour()
	if hour < openingRangeEnd {
		if s.orHigh == 0 || c.High > s.orHigh {
			s.orHigh = c.High
		}
		if s.orLow == 0 || c.Low < s.orLow {
			s.orLow = c.Low
		}
	} else if !s.OpeningRangeSet && s.orHigh > 0 {
		s.OpeningRangeHigh = s.orHigh
		s.OpeningRangeLow = s.orLow
		s.OpeningRangeSet = true
	}

	if hour < asianEndHour {
		if s.asiaHigh == 0 || c.High > s.asiaHigh {
			s.asiaHigh = c.High
		}
		if s.asiaLow == 0 || c.Low < s.asiaLow {
			s.asiaLow = c.Low
		}
	} else if !s.AsianSet && s.asiaHigh > 0 {
		s.AsianHigh = s.asiaHigh
		s.AsianLow = s.asiaLow
		s.AsianSet = true
	}

	s.Boll.Update(c.Close)
	if s.Boll.Ready() {
		s.bandwidthHistory.Push(s.Boll.LastBandwidth())
		if len(s.bandwidthHistory) > bandwidthHistorySize {
			s.bandwidthHistory = s.bandwidthHistory[1:]
		}
	}

	s.VolumeSMA.Update(c.Volume)
	s.EMA9.Update(c.Close)
	s.EMA21.Update(c.Close)
	s.EMA50.Update(c.Close)
}

func (s *SessionState) rollDay(day time.Time) {
	if s.dayHigh > 0 {
		s.PriorSessionHigh = s.dayHigh
		s.PriorSessionLow = s.dayLow
		s.PriorSessionSet = true
	}

	s.currentDay = day
	s.VWAP.Reset()

	s.dayHigh, s.dayLow = 0, 0
	s.orHigh, s.orLow = 0, 0
	s.asiaHigh, s.asiaLow = 0, 0
	s.OpeningRangeSet = false
	s.AsianSet = false
	s.OpeningRangeHigh, s.OpeningRangeLow = 0, 0
	s.AsianHigh, s.AsianLow = 0, 0
}

// InKillZone reports whether t falls inside the London or New York
// session window.
func (s *SessionState) InKillZone(t time.Time) bool {
	hour := t.UTC().Hour()
	if hour >= londonOpenHour && hour < londonCloseHour {
		return true
	}
	if hour >= newYorkOpenHour && hour < newYorkCloseHour {
		return true
	}
	return false
}

// InLondonSession reports the London window only; the Asian-range fade
// trades the London sweep of the overnight range.
func (s *SessionState) InLondonSession(t time.Time) bool {
	hour := t.UTC().Hour()
	return hour >= londonOpenHour && hour < londonCloseHour
}

// BandwidthPercentile ranks the current Bollinger bandwidth against its
// trailing history, returning a value in [0, 1].
func (s *SessionState) BandwidthPercentile() float64 {
	n := len(s.bandwidthHistory)
	if n == 0 {
		return 1
	}
	current := s.bandwidthHistory.Last(0)
	below := 0
	for _, v := range s.bandwidthHistory {
		if v < current {
			below++
		}
	}
	return float64(below) / float64(n)
}

// SqueezeActive reports whether volatility is compressed: the bandwidth
// sits below its trailing 20th percentile with a reasonably full history.
func (s *SessionState) SqueezeActive() bool {
	if len(s.bandwidthHistory) < bandwidthHistorySize/2 {
		return false
	}
	return s.BandwidthPercentile() <= 0.2
}

// Reset clears all session aggregates for a fresh run.
func (s *SessionState) Reset() {
	*s = *NewSessionState()
}
