package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"econstat/internal/etl"
)

// ImportRequest 导入请求
type ImportRequest struct {
	CSVDir string `json:"csvDir"` // 数据目录，缺省使用服务配置
}

// Import 从 CSV 目录加载数据 (SSE 流式响应)
// POST /api/import
func (h *Handler) Import(c *gin.Context) {
	var req ImportRequest
	// 允许空请求体
	_ = c.ShouldBindJSON(&req)

	csvDir := req.CSVDir
	if csvDir == "" {
		csvDir = h.csvDir
	}
	if info, err := os.Stat(csvDir); err != nil || !info.IsDir() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "数据目录不存在: " + csvDir})
		return
	}

	// 设置 SSE 响应头
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "不支持流式响应"})
		return
	}

	loader := etl.NewLoader(h.store, csvDir)

	// 流式发送进度事件
	for event := range loader.Load() {
		eventData, err := json.Marshal(event)
		if err != nil {
			continue
		}

		// SSE 格式: data: {json}\n\n
		fmt.Fprintf(c.Writer, "data: %s\n\n", eventData)
		flusher.Flush()
	}
}
