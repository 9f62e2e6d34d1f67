package handlers

import (
	"net/http"
	"strconv"

	"brewery_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// parseIDParam reads the :id path parameter and answers 400 when it is not a positive integer.
func parseIDParam(c *gin.Context, what string) (int64, bool) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid "+what+" ID format.", err.Error()))
		return 0, false
	}
	return id, true
}

// parseOptionalID reads an optional positive integer query parameter.
func parseOptionalID(c *gin.Context, key string) (*int64, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	id, err := utils.ParseID(raw)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid "+key+" format.", err.Error()))
		return nil, false
	}
	return &id, true
}

func parseBoolQuery(c *gin.Context, key string) bool {
	v, err := strconv.ParseBool(c.Query(key))
	return err == nil && v
}

func respondBindError(c *gin.Context, op string, err error) {
	utils.LogError(err, op+": Failed to bind JSON")
	utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
}

// sendAttachment writes a file download.
func sendAttachment(c *gin.Context, contentType, filename string, data []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}
