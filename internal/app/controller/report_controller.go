package controller

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/glowsouk/glowsouk-backend/internal/app/service"
	apperrors "github.com/glowsouk/glowsouk-backend/internal/errors"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportController struct {
	reportService service.ReportService
}

func NewReportController(reportService service.ReportService) *ReportController {
	return &ReportController{
		reportService: reportService,
	}
}

// ExportProductReport 제품 리뷰 현황 XLSX 다운로드 (관리자)
// @Summary 제품 리뷰 현황 리포트
// @Tags Admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Router /admin/reports/products [get]
func (ctrl *ReportController) ExportProductReport(c *gin.Context) {
	data, filename, err := ctrl.reportService.ExportProductReport()
	if err != nil {
		apperrors.InternalError(c, "리포트 생성에 실패했습니다")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
