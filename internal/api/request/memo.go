package request

import (
	"time"

	"github.com/ndewijer/Investment-Research-Backend/internal/model"
)

// CreateMemoRequest is the payload the generation pipeline submits for a new memo.
// ID is optional; a fresh UUID is assigned when it is empty.
type CreateMemoRequest struct {
	ID                  string        `json:"id,omitempty" validate:"omitempty,uuid"`
	Ticker              string        `json:"ticker" validate:"required,max=10"`
	Analyst             string        `json:"analyst" validate:"required,max=50"`
	Signal              string        `json:"signal" validate:"required,oneof=bullish bearish"`
	Conviction          *int          `json:"conviction" validate:"required,min=0,max=100"`
	Thesis              string        `json:"thesis" validate:"required"`
	BullCase            []string      `json:"bullCase" validate:"required,min=1,max=5,dive,required"`
	BearCase            []string      `json:"bearCase" validate:"required,min=1,max=5,dive,required"`
	Metrics             model.Metrics `json:"metrics"`
	CurrentPrice        float64       `json:"currentPrice" validate:"gt=0"`
	TargetPrice         float64       `json:"targetPrice" validate:"gt=0"`
	TimeHorizon         string        `json:"timeHorizon" validate:"required,oneof=short medium long"`
	GeneratedAt         *time.Time    `json:"generatedAt,omitempty"`
	Catalysts           *model.Value  `json:"catalysts,omitempty"`
	ConvictionBreakdown *model.Value  `json:"convictionBreakdown,omitempty"`
	MacroContext        *model.Value  `json:"macroContext,omitempty"`
	PositionSizing      *model.Value  `json:"positionSizing,omitempty"`
}
