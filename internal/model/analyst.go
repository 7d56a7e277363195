package model

// Leaderboard sort keys.
const (
	SortByWinRate    = "win_rate"
	SortByAvgReturn  = "avg_return"
	SortByTotalMemos = "total_memos"
)

// AnalystStats is a derived, never persisted, performance summary for one analyst.
type AnalystStats struct {
	Analyst       string  `json:"analyst"`
	TotalMemos    int     `json:"totalMemos"`
	ApprovedCount int     `json:"approvedCount"`
	ActiveCount   int     `json:"activeCount"`
	ClosedCount   int     `json:"closedCount"`
	WinCount      int     `json:"winCount"`
	WinRate       float64 `json:"winRate"`
	TotalReturn   float64 `json:"totalReturn"`
	AvgReturn     float64 `json:"avgReturn"`
	ApprovalRate  float64 `json:"approvalRate"`
}

// LeaderboardResponse is the ranked analyst list.
type LeaderboardResponse struct {
	SortBy   string         `json:"sortBy"`
	Analysts []AnalystStats `json:"analysts"`
}
