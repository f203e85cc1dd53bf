package handler

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	apierrors "github.com/palemoky/chinese-trainer/internal/errors"
)

var fingerprintPattern = regexp.MustCompile(`^[0-9a-f]{8}$`)

// parseFingerprint extracts and validates a dataset fingerprint from a URL parameter.
// Returns the fingerprint and true if successful, or sends an error response and returns false.
func parseFingerprint(c *gin.Context, param string) (string, bool) {
	fp := c.Param(param)
	if !fingerprintPattern.MatchString(fp) {
		respondAPIError(c, apierrors.InvalidID(param))
		return "", false
	}
	return fp, true
}

// respondError sends a JSON error response with the given status code and message.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// respondAPIError sends a structured API error.
func respondAPIError(c *gin.Context, err *apierrors.APIError) {
	c.JSON(err.HTTPStatus, gin.H{"error": err.Message, "code": err.Code})
}

// respondOK sends a JSON success response with the given data.
func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}

// respondLessonError maps trainer errors onto API errors.
func respondLessonError(c *gin.Context, err error) {
	respondAPIError(c, apierrors.FromDomain(err, "lesson request failed"))
}
