// files.go — 附件上传/删除 handlers (转发到平台文件 API)。
package console

import (
	"github.com/gin-gonic/gin"

	"github.com/multi-agent/agent-console/pkg/logger"
)

// uploadFile 接收 multipart 附件并转发到平台。
func (s *Server) uploadFile(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "invalid_request", "file field is required")
		return
	}
	if header.Size > int64(s.cfg.UploadMaxBytes) {
		badRequest(c, "file_too_large", "file exceeds upload limit")
		return
	}
	f, err := header.Open()
	if err != nil {
		serverError(c, err)
		return
	}
	defer f.Close()

	uploaded, err := s.client.UploadFile(c.Request.Context(), header.Filename, f)
	if err != nil {
		fail(c, err)
		return
	}
	logger.Info("file uploaded",
		logger.FieldFileID, uploaded.ID,
		logger.FieldPath, uploaded.Filename,
		logger.FieldBytes, header.Size)
	created(c, uploaded)
}

// deleteFile 删除平台侧文件。
func (s *Server) deleteFile(c *gin.Context) {
	if err := s.client.DeleteFile(c.Request.Context(), c.Param("file_id")); err != nil {
		fail(c, err)
		return
	}
	success(c, gin.H{"ok": true})
}
