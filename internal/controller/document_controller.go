package controller

import (
	"io"

	"github.com/abdallahade1/ConceptCatch/internal/service"
	"github.com/abdallahade1/ConceptCatch/internal/util"
	"github.com/gin-gonic/gin"
)

type DocumentController struct {
	DocumentService *service.DocumentService
}

func NewDocumentController(documentService *service.DocumentService) *DocumentController {
	return &DocumentController{DocumentService: documentService}
}

// @Summary Summarize an uploaded document
// @Tags document
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document (.pdf .docx .pptx .txt .html .md)"
// @Success 200 {object} util.Response
// @Router /documents/summarize [post]
func (ctl *DocumentController) Summarize(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		util.BadRequest(c, util.ErrFileRequired.Error())
		return
	}
	if err := ctl.DocumentService.Validate(fileHeader.Filename, fileHeader.Size); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	data, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		util.LogInternalError(c, err)
		return
	}

	text, err := ctl.DocumentService.ExtractText(fileHeader.Filename, data)
	if err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	summary, err := ctl.DocumentService.Summarize(c.Request.Context(), text)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}

	util.Success(c, gin.H{
		"filename": fileHeader.Filename,
		"summary":  summary,
	})
}
