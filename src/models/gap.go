package models

// PriceKind names one of the per-row price columns a gap rate can use.
type PriceKind string

const (
	PricePrevClose PriceKind = "prev_close"
	PriceOpen      PriceKind = "open"
	PriceClose     PriceKind = "close"
	PriceNextOpen  PriceKind = "next_open"
	PriceNextClose PriceKind = "next_close"
)

// ValidBase reports whether the kind may be used as a rate denominator.
func (k PriceKind) ValidBase() bool {
	switch k {
	case PricePrevClose, PriceOpen, PriceClose:
		return true
	}
	return false
}

// ValidCompare reports whether the kind may be used as a rate numerator.
func (k PriceKind) ValidCompare() bool {
	switch k {
	case PriceOpen, PriceClose, PriceNextOpen, PriceNextClose:
		return true
	}
	return false
}

// Direction is the required sign of an optional gap stage.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// MGapStage is an optional narrowing stage. It applies only when all three
// fields are set.
type MGapStage struct {
	Base      PriceKind
	Compare   PriceKind
	Direction Direction
}

// Active reports whether every stage parameter was supplied.
func (s MGapStage) Active() bool {
	return s.Base != "" && s.Compare != "" && s.Direction != ""
}

// MGapQuery parameterizes the gap screener.
type MGapQuery struct {
	StartDate    string
	EndDate      string
	Base         PriceKind
	Compare      PriceKind
	MinRate      float64
	MaxRate      float64
	Extra        MGapStage
	Detail       MGapStage
	TickerFilter string
}

// MGapRow is one screener hit.
type MGapRow struct {
	Date          string   `json:"date"`
	Code          string   `json:"code"`
	Name          string   `json:"name"`
	Close         float64  `json:"close"`
	Rate          float64  `json:"rate"`
	Turnover      int64    `json:"turnover"`
	MA240         *float64 `json:"ma240"`
	MA240Position *string  `json:"ma240_position"`
}
