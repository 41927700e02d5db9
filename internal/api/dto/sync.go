package dto

// SweepFailureDTO 单频道扫描失败明细
type SweepFailureDTO struct {
	Key    string `json:"key"`
	Reason string `json:"reason"`
}

// SweepReportDTO 每日扫描执行报告
type SweepReportDTO struct {
	Total      int                `json:"total"`
	Synced     int                `json:"synced"`
	Failed     int                `json:"failed"`
	Failures   []*SweepFailureDTO `json:"failures,omitempty"`
	DurationMs int64              `json:"duration_ms"`
}
