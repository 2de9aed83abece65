package etl

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// csvTable 读入内存的 CSV 文件，表头已去除首尾空白
type csvTable struct {
	path    string
	columns []string
	index   map[string]int
	rows    [][]string
}

// readCSVFile 读取 CSV 并校验必需列
// 列名大小写敏感、按声明模式精确匹配；缺列直接报错，不做隐式纠正
func readCSVFile(path string, required []string) (*csvTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // 宽表列数允许不齐

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv %s: %w", path, err)
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("csv %s is empty", path)
	}

	t := &csvTable{
		path:  path,
		index: make(map[string]int),
		rows:  records[1:],
	}
	for i, col := range records[0] {
		col = strings.TrimSpace(col)
		t.columns = append(t.columns, col)
		if _, exists := t.index[col]; !exists {
			t.index[col] = i
		}
	}

	var missing []string
	for _, col := range required {
		if _, ok := t.index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("csv %s missing required columns: %s", path, strings.Join(missing, ", "))
	}

	return t, nil
}

// field 取指定行的指定列值，列不存在或行过短时返回空串
func (t *csvTable) field(row []string, col string) string {
	idx, ok := t.index[col]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// hasColumn 判断列是否存在（用于宽表的按年列探测）
func (t *csvTable) hasColumn(col string) bool {
	_, ok := t.index[col]
	return ok
}

// cleanNumber 去除千分位逗号与引号
func cleanNumber(s string) string {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, `"`, "")
	return strings.TrimSpace(s)
}

// parseFloat 解析清洗后的数值
func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(cleanNumber(s), 64)
}

// parseOptionalFloat 解析可能缺失的数值；空串或不可解析返回 false
// 先做千分位清洗，用于销售额/收入等带逗号格式的列
func parseOptionalFloat(s string) (float64, bool) {
	s = cleanNumber(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseSeriesValue 解析序列观测值，不做千分位清洗
// 序列源的 value 列本身不带逗号，带逗号的值视为脏数据按缺失过滤
func parseSeriesValue(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// leadingInt 提取字符串开头的整数（如 "2023 (40)" -> 2023）
func leadingInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty year value")
	}
	return strconv.Atoi(fields[0])
}
