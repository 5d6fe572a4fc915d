package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/glowsouk/glowsouk-backend/internal/errors"
	"github.com/glowsouk/glowsouk-backend/internal/middleware"
	"github.com/glowsouk/glowsouk-backend/internal/storage"
)

type UploadController struct {
	s3Storage *storage.S3Storage
}

func NewUploadController(s3Storage *storage.S3Storage) *UploadController {
	return &UploadController{
		s3Storage: s3Storage,
	}
}

// GetPresignedURL 이미지 업로드용 사전 서명 URL 발급
// @Summary 업로드 URL 발급 (클라이언트가 S3에 직접 업로드)
// @Tags Upload
// @Accept json
// @Produce json
// @Param upload body object true "파일 정보"
// @Success 200 {object} storage.PresignedURLResponse
// @Router /upload/presign [post]
func (ctrl *UploadController) GetPresignedURL(c *gin.Context) {
	if _, exists := middleware.GetUserID(c); !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	var input struct {
		Filename    string `json:"filename" binding:"required"`
		ContentType string `json:"content_type" binding:"required"`
		Folder      string `json:"folder" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "파일명, 콘텐츠 타입, 폴더는 필수입니다")
		return
	}

	resp, err := ctrl.s3Storage.GeneratePresignedURL(c.Request.Context(), input.Filename, input.ContentType, input.Folder)
	if err != nil {
		if verr := ctrl.s3Storage.ValidateUpload(input.Folder, input.ContentType); verr != nil {
			apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "이미지 파일만 업로드할 수 있습니다")
			return
		}
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "업로드 URL 발급에 실패했습니다")
		return
	}

	c.JSON(http.StatusOK, resp)
}
