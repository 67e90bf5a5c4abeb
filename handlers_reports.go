package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/defensoria/siri-backend/models"
	"github.com/defensoria/siri-backend/models/reports"
	"github.com/defensoria/siri-backend/utils"
	"github.com/gin-gonic/gin"
)

// parseReportDate accepts both YYYY-MM-DD and DD/MM/YYYY, the two formats
// the frontend date pickers have produced over time.
func parseReportDate(value string) (time.Time, error) {
	if t, err := utils.ParseDate(value); err == nil {
		return t, nil
	}
	return time.Parse("02/01/2006", strings.TrimSpace(value))
}

// parseReportMonth accepts MM-YYYY and YYYY-MM.
func parseReportMonth(value string) (time.Time, time.Time, error) {
	value = strings.TrimSpace(value)
	if start, err := time.Parse("01-2006", value); err == nil {
		return start, start.AddDate(0, 1, 0), nil
	}
	return utils.MonthRange(value)
}

func reportDateWindow(c *gin.Context) (*time.Time, *time.Time, bool) {
	var from, to *time.Time
	if s := queryString(c, "initial_date"); s != nil {
		t, err := parseReportDate(*s)
		if err != nil {
			respondError(c, models.ErrInvalidQueryParameters)
			return nil, nil, false
		}
		from = &t
	}
	if s := queryString(c, "final_date"); s != nil {
		t, err := parseReportDate(*s)
		if err != nil {
			respondError(c, models.ErrInvalidQueryParameters)
			return nil, nil, false
		}
		// window is inclusive of the final day
		t = t.AddDate(0, 0, 1)
		to = &t
	}
	return from, to, true
}

func listReceivingReportsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		from, to, ok := reportDateWindow(c)
		if !ok {
			return
		}
		results, err := models.ListReceivingReports(c.Request.Context(),
			queryInt(c, "supplier_id"), queryInt(c, "product_id"), from, to)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, results)
	}
}

func createReceivingReportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewReceivingReport
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result, err := models.CreateReceivingReport(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, result)
	}
}

func getReceivingReportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramId(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result, err := models.GetReceivingReport(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func deleteReceivingReportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramId(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if _, err := models.DeleteReceivingReport(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func listDispatchReportsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		from, to, ok := reportDateWindow(c)
		if !ok {
			return
		}
		results, err := models.ListDispatchReports(c.Request.Context(),
			queryInt(c, "public_defense_id"), queryInt(c, "product_id"), from, to)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, results)
	}
}

func createDispatchReportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewDispatchReport
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result, err := models.CreateDispatchReport(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, result)
	}
}

func getDispatchReportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramId(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result, err := models.GetDispatchReport(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func deleteDispatchReportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramId(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if _, err := models.DeleteDispatchReport(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func stockReportFilter(c *gin.Context) (*reports.StockReportFilter, bool) {
	initial := queryString(c, "initial_date")
	final := queryString(c, "final_date")
	if initial == nil || final == nil {
		respondError(c, models.ErrInvalidQueryParameters)
		return nil, false
	}
	from, err := parseReportDate(*initial)
	if err != nil {
		respondError(c, models.ErrInvalidQueryParameters)
		return nil, false
	}
	to, err := parseReportDate(*final)
	if err != nil || to.Before(from) {
		respondError(c, models.ErrInvalidQueryParameters)
		return nil, false
	}
	return &reports.StockReportFilter{
		InitialDate:      from,
		FinalDate:        to.AddDate(0, 0, 1),
		ProductIds:       queryIntList(c, "product_id"),
		CategoryIds:      queryIntList(c, "category_id"),
		PublicDefenseIds: queryIntList(c, "public_defense_id"),
		SectorIds:        queryIntList(c, "sector_id"),
	}, true
}

func stockReportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, ok := stockReportFilter(c)
		if !ok {
			return
		}
		rows, err := reports.GetStockReport(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func stockReportExportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, ok := stockReportFilter(c)
		if !ok {
			return
		}
		rows, err := reports.GetStockReport(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		exporters := make([]reports.ExcelExporter, len(rows))
		for i, row := range rows {
			exporters[i] = *row
		}
		writeExcelAttachment(c, "stock-report.xlsx")
		if err := reports.WriteExcel(c.Writer, reports.StockReportHeadings, exporters); err != nil {
			respondError(c, err)
		}
	}
}

func warehouseItemsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := reports.GetWarehouseItemsReport(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func warehouseItemsExportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := reports.GetWarehouseItemsReport(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		exporters := make([]reports.ExcelExporter, len(rows))
		for i, row := range rows {
			exporters[i] = *row
		}
		writeExcelAttachment(c, "warehouse-items.xlsx")
		if err := reports.WriteExcel(c.Writer, reports.WarehouseItemsHeadings, exporters); err != nil {
			respondError(c, err)
		}
	}
}

func accountantReportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		date := queryString(c, "date")
		if date == nil {
			respondError(c, models.ErrInvalidQueryParameters)
			return
		}
		monthStart, monthEnd, err := parseReportMonth(*date)
		if err != nil {
			respondError(c, models.ErrInvalidQueryParameters)
			return
		}
		result, err := reports.GetAccountantReport(c.Request.Context(), monthStart, monthEnd)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func accountantReportExportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		date := queryString(c, "date")
		if date == nil {
			respondError(c, models.ErrInvalidQueryParameters)
			return
		}
		monthStart, monthEnd, err := parseReportMonth(*date)
		if err != nil {
			respondError(c, models.ErrInvalidQueryParameters)
			return
		}
		result, err := reports.GetAccountantReport(c.Request.Context(), monthStart, monthEnd)
		if err != nil {
			respondError(c, err)
			return
		}
		exporters := make([]reports.ExcelExporter, len(result.Rows))
		for i, row := range result.Rows {
			exporters[i] = *row
		}
		writeExcelAttachment(c, "accountant-report-"+monthStart.Format("2006-01")+".xlsx")
		if err := reports.WriteExcel(c.Writer, reports.AccountantReportHeadings, exporters); err != nil {
			respondError(c, err)
		}
	}
}

func getAccountantReportFileHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		date := queryString(c, "date")
		if date == nil {
			respondError(c, models.ErrInvalidQueryParameters)
			return
		}
		monthStart, _, err := parseReportMonth(*date)
		if err != nil {
			respondError(c, models.ErrInvalidQueryParameters)
			return
		}
		result, err := models.GetAccountantReportFile(c.Request.Context(), monthStart.Format("2006-01"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func listCategoryBalancesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		results, err := models.ListCategoryBalances(c.Request.Context(), queryInt(c, "category_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, results)
	}
}
