// Package period は期間キーワードをUTCの日付範囲に解決する。
//
// 期間はday/week/month/yearのキーワード、または明示的なfrom/toの
// 日付ペアで指定される。解決結果は両端を含む範囲であり、
// 終端は明示指定がない限り常に当日の23:59:59.999 UTCとなる。
package period

import (
	"time"

	"github.com/hitoshi/kakeibo/internal/model"
)

// 期間キーワード
const (
	Day   = "day"
	Week  = "week"
	Month = "month"
	Year  = "year"
)

// Range は両端を含むUTCの日時範囲を表す。
type Range struct {
	Start time.Time
	End   time.Time
}

// dateLayouts は明示的な日付指定で受理するフォーマット。
// カレンダー日付（YYYY-MM-DD）を優先し、RFC3339も日付部分を使用して受理する。
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
}

// Resolve は期間キーワードまたは明示的な日付ペアをUTCの日付範囲に変換する。
// fromとtoが両方指定されている場合はキーワードより優先する。
// キーワードが未指定または未知で日付ペアもない場合はnil（絞り込みなし）を返す。
// nowは範囲計算の基準時刻であり、テストで固定できるよう引数で受け取る。
func Resolve(now time.Time, keyword, from, to string) (*Range, error) {
	if from != "" && to != "" {
		return resolveCustom(from, to)
	}

	today := now.UTC()
	end := endOfDay(today)

	switch keyword {
	case Day:
		return &Range{Start: startOfDay(today), End: end}, nil

	case Week:
		// ISO週: 月曜始まり。date - ((dayOfWeek + 6) % 7) 日で週初を求める
		offset := (int(today.Weekday()) + 6) % 7
		monday := today.AddDate(0, 0, -offset)
		return &Range{Start: startOfDay(monday), End: end}, nil

	case Month:
		start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		return &Range{Start: start, End: end}, nil

	case Year:
		start := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return &Range{Start: start, End: end}, nil

	default:
		// キーワードなし・未知のキーワードは絞り込みなし
		return nil, nil
	}
}

// resolveCustom は明示的なfrom/toペアを範囲に変換する。
// fromは当日の00:00:00.000、toは当日の23:59:59.999に丸める。
func resolveCustom(from, to string) (*Range, error) {
	start, err := parseDate(from)
	if err != nil {
		return nil, model.NewInvalidDateError(from)
	}

	end, err := parseDate(to)
	if err != nil {
		return nil, model.NewInvalidDateError(to)
	}

	return &Range{Start: startOfDay(start), End: endOfDay(end)}, nil
}

// parseDate は受理フォーマットのいずれかで日付をパースする。
func parseDate(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// startOfDay は指定日時の00:00:00.000 UTCを返す。
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// endOfDay は指定日時の23:59:59.999 UTCを返す。
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999_000_000, time.UTC)
}
