package service

import (
	"regexp"
	"strconv"
	"time"
)

// 全系統的班次時刻都是補零 24 小時制 HH:MM，因此可以直接用字串比大小。
// 跨午夜的班次（endTime < startTime）這裡不做特殊處理：這是既有資料
// 模型的已知限制，修正時只需要改這個檔案。
var timeOfDayPattern = regexp.MustCompile(`^(?:[01][0-9]|2[0-3]):[0-5][0-9]$`)

func timeOfDayValid(value string) bool {
	return timeOfDayPattern.MatchString(value)
}

// windowsOverlap 半開區間 [start, end) 的重疊判斷。三個條件雖然等價於
// candidate.start < existing.end && candidate.end > existing.start，
// 但拆開寫對應三種邊界情境，恰好首尾相接（一班結束即另一班開始）不算衝突。
func windowsOverlap(candidateStart, candidateEnd, existingStart, existingEnd string) bool {
	// 候選開始時間落在既有窗內
	if existingStart <= candidateStart && candidateStart < existingEnd {
		return true
	}
	// 候選結束時間落在既有窗內
	if existingStart < candidateEnd && candidateEnd <= existingEnd {
		return true
	}
	// 候選窗完全包住既有窗
	if candidateStart <= existingStart && candidateEnd >= existingEnd {
		return true
	}
	return false
}

// dayBounds 回傳該日曆日的 [00:00:00.000, 23:59:59.999]（UTC）
func dayBounds(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24*time.Hour - time.Millisecond)
	return start, end
}

// parseDay 接受 2006-01-02 或完整 RFC3339，一律換算成 UTC 日曆日
func parseDay(value string) (time.Time, error) {
	if parsed, err := time.Parse(rotaDateLayout, value); err == nil {
		return parsed, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	parsed = parsed.UTC()
	return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC), nil
}

// minutesBetween HH:MM 差值（分鐘）；僅供統計，跨午夜會得到負值
func minutesBetween(startTime, endTime string) int {
	startHour, _ := strconv.Atoi(startTime[:2])
	startMinute, _ := strconv.Atoi(startTime[3:])
	endHour, _ := strconv.Atoi(endTime[:2])
	endMinute, _ := strconv.Atoi(endTime[3:])
	return (endHour*60 + endMinute) - (startHour*60 + startMinute)
}
