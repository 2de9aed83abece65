package geo

import "strings"

// 特殊区域标签：不含逗号分隔的州代码，直接映射到州名
var specialAreas = map[string]string{
	"Urban Alaska": "Alaska",
	"Urban Hawaii": "Hawaii",
}

// ExtractStates 从区域标签中提取州名列表
// 支持格式: "City, ST" / "City1-City2, ST1-ST2"
// 无逗号且非特殊标签时返回空列表，调用方按 region 类型处理
func ExtractStates(areaName string) []string {
	if state, ok := specialAreas[areaName]; ok {
		return []string{state}
	}

	idx := strings.Index(areaName, ",")
	if idx < 0 {
		// 非州级区域名（如 "Midwest"），按 region 处理
		return nil
	}

	codes := strings.Split(strings.TrimSpace(areaName[idx+1:]), "-")
	states := make([]string, 0, len(codes))
	for _, code := range codes {
		states = append(states, StateName(strings.TrimSpace(code)))
	}
	return states
}
