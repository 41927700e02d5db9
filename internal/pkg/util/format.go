package util

import (
	"fmt"
	"strconv"
	"time"
)

// FormatCount 将数值压缩为仪表盘使用的短标签，如 1234 -> "1.2K"
func FormatCount(n int64) string {
	if n >= 1000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	}
	return strconv.FormatInt(n, 10)
}

// FormatTimeAgo 输出距今时长的人类可读标签
func FormatTimeAgo(t time.Time, now time.Time) string {
	diff := now.Sub(t).Seconds()
	switch {
	case diff < 60:
		return "just now"
	case diff < 3600:
		return strconv.Itoa(int(diff/60)) + "m ago"
	case diff < 86400:
		return strconv.Itoa(int(diff/3600)) + "h ago"
	case diff < 172800:
		return "1d ago"
	case diff < 604800:
		return strconv.Itoa(int(diff/86400)) + "d ago"
	case diff < 2592000:
		return strconv.Itoa(int(diff/604800)) + "w ago"
	case diff < 31536000:
		return strconv.Itoa(int(diff/2592000)) + "mo ago"
	default:
		return strconv.Itoa(int(diff/31536000)) + "y ago"
	}
}

// FormatChartDate 图表横轴日期标签，如 "Jan 5"
func FormatChartDate(t time.Time) string {
	return t.Format("Jan 2")
}
