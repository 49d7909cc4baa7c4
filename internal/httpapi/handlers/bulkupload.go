package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/wholesale-platform/internal/bulkupload"
	"github.com/suPer8Hu/wholesale-platform/internal/common"
)

// UploadCSV expects a multipart form with file, category_id and grade.
func (h *Handler) UploadCSV(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, 10002, "file is required")
		return
	}
	if err := bulkupload.ValidateFile(fh.Filename, fh.Size); err != nil {
		failErr(c, err)
		return
	}
	categoryID, err := strconv.ParseUint(c.PostForm("category_id"), 10, 64)
	if err != nil || categoryID == 0 {
		fail(c, http.StatusBadRequest, 10002, "category_id is required")
		return
	}

	f, err := fh.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, 10002, "failed to open file")
		return
	}
	defer f.Close()
	content, err := io.ReadAll(io.LimitReader(f, bulkupload.MaxFileSize+1))
	if err != nil {
		fail(c, http.StatusBadRequest, 10002, "failed to read file")
		return
	}

	res, err := h.BulkUpload.Import(c.Request.Context(), content, categoryID, c.DefaultPostForm("grade", "A"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, res)
}

func (h *Handler) CSVTemplate(c *gin.Context) {
	ok(c, gin.H{"template": bulkupload.Template()})
}

type validateFileReq struct {
	FileName string `json:"file_name" binding:"required"`
	FileSize int64  `json:"file_size"`
}

func (h *Handler) ValidateCSVFile(c *gin.Context) {
	var req validateFileReq
	if !bindJSON(c, &req) {
		return
	}
	if err := bulkupload.ValidateFile(req.FileName, req.FileSize); err != nil {
		ok(c, gin.H{"valid": false, "error": common.Message(err)})
		return
	}
	ok(c, gin.H{"valid": true})
}
