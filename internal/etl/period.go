package etl

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePeriodCode 将周期编码解析为月份
// 支持格式: "M01".."M12"（月度）、"S01"/"S02"（半年，取期末月）
// 无法识别的编码为硬错误，中止本次加载
func ParsePeriodCode(code string) (int, error) {
	var month int
	var err error

	switch {
	case strings.HasPrefix(code, "M"):
		month, err = strconv.Atoi(strings.TrimPrefix(code, "M"))
	case strings.HasPrefix(code, "S"):
		// 半年编码取区间末月: S01 -> 6, S02 -> 12
		month, err = strconv.Atoi(strings.TrimPrefix(code, "S"))
		month *= 6
	default:
		return 0, fmt.Errorf("unknown period format: %q", code)
	}

	if err != nil {
		return 0, fmt.Errorf("unknown period format: %q", code)
	}
	if month < 1 || month > 12 {
		return 0, fmt.Errorf("period %q out of range: month %d", code, month)
	}
	return month, nil
}
