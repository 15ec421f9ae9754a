package store

import (
	"encoding/json"
	"strconv"
	"strings"
)

// 公开数据源返回的文档结构
// 格式：{"table":{"rows":[{"c":[{"v":...},...]},...]}}
type feedCell struct {
	V any `json:"v"` // 单元格原始值，可能是字符串、数字、布尔或null
}

type feedRow struct {
	C []*feedCell `json:"c"` // 单元格序列，按列位置排列
}

type feedDocument struct {
	Table *struct {
		Rows []feedRow `json:"rows"`
	} `json:"table"`
}

// Row 解析后的数据行
// 按列位置访问单元格，越界位置视为缺失
type Row struct {
	cells []*feedCell
}

// Cell 返回指定位置单元格的原始值
// 越界或单元格为null时返回nil
func (r Row) Cell(i int) any {
	if i < 0 || i >= len(r.cells) || r.cells[i] == nil {
		return nil
	}
	return r.cells[i].V
}

// String 将指定位置的单元格强制转换为字符串
// 缺失时返回空字符串，任何类型都不会向调用方传播类型错误
func (r Row) String(i int) string {
	switch v := r.Cell(i).(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// Float 将指定位置的单元格强制转换为浮点数
// 缺失或无法解析时返回0
func (r Row) Float(i int) float64 {
	switch v := r.Cell(i).(type) {
	case float64:
		return v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

// setResponseCallback 数据源使用的回调函数名
// 实际响应形如：/*O_o*/\ngoogle.visualization.Query.setResponse({...});
const setResponseCallback = "google.visualization.Query.setResponse("

// UnwrapFeed 剥离数据源文本的回调包装
// 响应可能被一层或多层括号包装（functionName(...)或裸(...)形式）
// 反复剥离配对的外层括号直到不存在为止，最后去掉末尾的语句终止符和空白
func UnwrapFeed(text string) string {
	s := strings.TrimSpace(text)
	for {
		s = strings.TrimRight(s, "; \t\r\n")
		inner, ok := stripWrapper(s)
		if !ok {
			break
		}
		s = strings.TrimSpace(inner)
	}

	// 带注释前缀的setResponse形式无法按标识符前缀剥离
	// 按原样取第一个左括号到最后一个右括号之间的内容
	if strings.Contains(s, setResponseCallback) {
		start := strings.IndexByte(s, '(') + 1
		end := strings.LastIndexByte(s, ')')
		if start > 0 && end > start {
			s = strings.TrimSpace(s[start:end])
		}
	}

	return strings.TrimSpace(strings.TrimRight(s, "; \t\r\n"))
}

// stripWrapper 剥掉一层回调包装
// 只有前缀是回调函数名（标识符和点号）且首个左括号与末尾字符配对时才剥离
func stripWrapper(s string) (string, bool) {
	if !strings.HasSuffix(s, ")") {
		return "", false
	}
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return "", false
	}
	for _, r := range s[:open] {
		if !isIdentRune(r) {
			return "", false
		}
	}

	// 括号配对检查：首个左括号必须恰好在末尾闭合
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				if i != len(s)-1 {
					return "", false
				}
				return s[open+1 : i], true
			}
		}
	}
	return "", false
}

// isIdentRune 判断字符是否可以出现在回调函数名中
func isIdentRune(r rune) bool {
	return r == '.' || r == '_' || r == '$' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// ParseFeed 将数据源的原始文本解析为有序的数据行
// 第一行固定是表头，不出现在结果中
// 首个单元格缺失或为假值的行被整行丢弃（没有标识就没有有效数据）
// 文档缺少table/rows结构不算错误，表示零条记录
func ParseFeed(text string) ([]Row, error) {
	inner := UnwrapFeed(text)

	var doc feedDocument
	if err := json.Unmarshal([]byte(inner), &doc); err != nil {
		return nil, newMalformedFeedError(inner, err)
	}

	if doc.Table == nil || len(doc.Table.Rows) == 0 {
		return []Row{}, nil
	}

	rows := make([]Row, 0, len(doc.Table.Rows)-1)
	for _, raw := range doc.Table.Rows[1:] {
		row := Row{cells: raw.C}
		if !truthy(row.Cell(0)) {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// truthy 判断单元格原始值是否为有效标识
// null、空字符串、0和false都视为无效
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case float64:
		return val != 0
	case bool:
		return val
	}
	return true
}
