package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Umer-siddique/Polling-App-Backend/internal/utils"
)

// CleanXSS 清洗 query 与表单中的文本输入（xss-clean 等价物）
// JSON 体由各 handler 在绑定后清洗，文件字段不经过这里
func CleanXSS() gin.HandlerFunc {
	return func(c *gin.Context) {
		// query string
		query := c.Request.URL.Query()
		changed := false
		for key, values := range query {
			for i, v := range values {
				if s := utils.SanitizeText(v); s != v {
					values[i] = s
					changed = true
				}
			}
			query[key] = values
		}
		if changed {
			c.Request.URL.RawQuery = query.Encode()
		}

		// 表单字段
		ct := c.ContentType()
		if ct == "application/x-www-form-urlencoded" || strings.HasPrefix(ct, "multipart/form-data") {
			err := c.Request.ParseMultipartForm(32 << 20)
			if err == nil || errors.Is(err, http.ErrNotMultipart) {
				sanitizeValues(c.Request.PostForm)
				if c.Request.MultipartForm != nil {
					sanitizeValues(c.Request.MultipartForm.Value)
				}
			}
		}

		c.Next()
	}
}

func sanitizeValues(form map[string][]string) {
	for key, values := range form {
		for i, v := range values {
			values[i] = utils.SanitizeText(v)
		}
		form[key] = values
	}
}
