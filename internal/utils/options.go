package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var xssPolicy = bluemonday.StrictPolicy()

// ParseOptions 规范化选项输入
// 前端既可能提交重复的表单字段（数组），也可能提交单个逗号分隔的字符串，
// 两种形式都接受，统一输出去除空白、剔除空项的有序列表
func ParseOptions(values []string) []string {
	if len(values) == 1 && strings.Contains(values[0], ",") {
		values = strings.Split(values[0], ",")
	}

	options := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			options = append(options, v)
		}
	}
	return options
}

// SanitizeText strips all markup from user supplied text (xss-clean 等价物)
func SanitizeText(s string) string {
	return xssPolicy.Sanitize(s)
}
