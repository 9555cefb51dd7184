package handlers

import (
	"encoding/base64"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"resumeforge/internal/api/validation"
	"resumeforge/internal/latex"
	"resumeforge/internal/logging"
	"resumeforge/pkg/models"
	"resumeforge/pkg/utils"
)

var resumeValidator = validator.New()

func init() {
	validation.RegisterResumeValidators(resumeValidator)
}

// CreateResumeHandler handles the POST /api/v1/resume/create endpoint. It
// binds and validates the request, runs the compilation engine and maps
// classified engine errors to HTTP semantics.
func CreateResumeHandler(engine *latex.Engine) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		logger := logging.GetGlobalLogger()
		c.Set("request_id", requestID)

		logger.Info("Processing resume compilation request", map[string]interface{}{
			"request_id": requestID,
			"endpoint":   "/api/v1/resume/create",
			"method":     "POST",
		})

		var req models.CreateResumeRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, errorBody(requestID,
				"INVALID_REQUEST", "Invalid request body: "+err.Error(), ""))
		}

		if err := resumeValidator.Struct(&req); err != nil {
			logger.Error("Request validation failed", map[string]interface{}{
				"request_id": requestID,
				"error":      err.Error(),
			})
			return c.JSON(http.StatusBadRequest, errorBody(requestID,
				"VALIDATION_FAILED", "Request validation failed: "+err.Error(), ""))
		}

		format := req.OutputFormat
		if format == "" {
			format = models.FormatBoth
		}

		result, err := engine.Compile(c.Request().Context(), latex.CompilationRequest{
			Resume:       req.ResumeData,
			TemplateID:   req.TemplateID,
			OutputFormat: format,
		})
		if err != nil {
			return compileErrorResponse(c, requestID, err)
		}

		response := models.CreateResumeResponse{
			ID:             utils.GenerateResumeID(),
			Format:         format,
			TexFile:        result.Source,
			ProcessingTime: result.Duration,
			RequestID:      requestID,
		}
		if len(result.PDF) > 0 {
			response.PDFFile = base64.StdEncoding.EncodeToString(result.PDF)
		}

		logger.Info("Resume compiled successfully", map[string]interface{}{
			"request_id": requestID,
			"resume_id":  response.ID,
			"format":     string(format),
			"duration":   utils.FormatDuration(result.Duration),
		})

		return c.JSON(http.StatusOK, response)
	}
}

// compileErrorResponse maps the engine's error taxonomy onto HTTP status
// codes, forwarding the compiler's diagnostic log verbatim so the caller
// never gets an unexplained 500.
func compileErrorResponse(c echo.Context, requestID string, err error) error {
	kind, ok := latex.KindOf(err)
	if !ok {
		// Context cancellation or an unexpected internal failure
		if c.Request().Context().Err() != nil {
			return c.JSON(http.StatusRequestTimeout, errorBody(requestID,
				"REQUEST_CANCELLED", "Request was cancelled before compilation finished", ""))
		}
		return utils.NewInternalServerError(err.Error())
	}

	log := latex.DiagnosticLog(err)
	switch kind {
	case latex.KindValidation:
		return c.JSON(http.StatusBadRequest, errorBody(requestID, kind.String(), err.Error(), ""))
	case latex.KindTemplateIntegrity:
		return c.JSON(http.StatusInternalServerError, errorBody(requestID, kind.String(), err.Error(), ""))
	case latex.KindCompilationFailed:
		return c.JSON(http.StatusUnprocessableEntity, errorBody(requestID, kind.String(), err.Error(), log))
	case latex.KindCompilationTimeout:
		return c.JSON(http.StatusRequestTimeout, errorBody(requestID, kind.String(), err.Error(), log))
	case latex.KindResourceExhausted:
		return c.JSON(http.StatusTooManyRequests, errorBody(requestID, kind.String(), err.Error(), ""))
	default:
		return c.JSON(http.StatusInternalServerError, errorBody(requestID, "INTERNAL", err.Error(), log))
	}
}

func errorBody(requestID, code, message, log string) models.ErrorResponse {
	return models.ErrorResponse{
		Error:     code,
		Message:   message,
		Log:       log,
		RequestID: requestID,
		Timestamp: time.Now(),
	}
}
