package entity

const (
	StatsWinsKey   = "ttt_wins"
	StatsLossesKey = "ttt_losses"
	StatsDrawsKey  = "ttt_draws"
)

type StatResult int

const (
	ResultWin StatResult = iota + 1
	ResultLoss
	ResultDraw
)

// Key - storage key of the counter.
func (that StatResult) Key() string {
	switch that {
	case ResultWin:
		return StatsWinsKey
	case ResultLoss:
		return StatsLossesKey
	case ResultDraw:
		return StatsDrawsKey
	default:
		return ""
	}
}

func (that StatResult) String() string {
	switch that {
	case ResultWin:
		return "win"
	case ResultLoss:
		return "loss"
	case ResultDraw:
		return "draw"
	default:
		return "unknown"
	}
}

type Stats struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Draws  int `json:"draws"`
}

func StatsKeys() []string {
	return []string{StatsWinsKey, StatsLossesKey, StatsDrawsKey}
}
