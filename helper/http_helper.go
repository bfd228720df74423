package helper

import (
	"errors"
	"math"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"story-cms/models"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"go.uber.org/zap"
	"gopkg.in/go-playground/validator.v9"
	en_translations "gopkg.in/go-playground/validator.v9/translations/en"
)

const (
	textError             = `error`
	textOk                = `ok`
	codeSuccess           = 200
	codeCreated           = 201
	codeBadRequestError   = 400
	codeUnauthorizedError = 401
	codeValidationError   = 403
	codeNotFound          = 404
	codeForbidden         = 405
	codeConflict          = 409
	codeTooManyRequests   = 429
	codeInternalError     = 500
)

// httpStatusByCode maps the envelope code to the HTTP status actually sent.
var httpStatusByCode = map[int]int{
	codeSuccess:           http.StatusOK,
	codeCreated:           http.StatusCreated,
	codeBadRequestError:   http.StatusBadRequest,
	codeUnauthorizedError: http.StatusUnauthorized,
	codeValidationError:   http.StatusBadRequest,
	codeNotFound:          http.StatusNotFound,
	codeForbidden:         http.StatusForbidden,
	codeConflict:          http.StatusConflict,
	codeTooManyRequests:   http.StatusTooManyRequests,
	codeInternalError:     http.StatusInternalServerError,
}

// ResponseHelper ...
type ResponseHelper struct {
	C        *gin.Context
	Status   string
	Message  string
	Data     interface{}
	Code     int // not the http code
	CodeType string
}

// HTTPHelper ...
type HTTPHelper struct {
	Validate   *validator.Validate
	Translator ut.Translator
	Logger     *zap.Logger
}

// NewHTTPHelper builds a helper with an English translator registered on the validator.
func NewHTTPHelper(logger *zap.Logger) *HTTPHelper {
	if logger == nil {
		logger = zap.NewNop()
	}

	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")

	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		logger.Warn("failed to register validator translations", zap.Error(err))
	}

	return &HTTPHelper{
		Validate:   validate,
		Translator: trans,
		Logger:     logger,
	}
}

// SetResponse ...
// Set response data.
func (u *HTTPHelper) SetResponse(c *gin.Context, status string, message string, data interface{}, code int, codeType string) ResponseHelper {
	return ResponseHelper{c, status, message, data, code, codeType}
}

// SendError ...
// Send error response to consumers.
func (u *HTTPHelper) SendError(c *gin.Context, message string, data interface{}, code int, codeType string) error {
	res := u.SetResponse(c, textError, message, data, code, codeType)

	return u.SendResponse(res)
}

// SendBadRequest ...
// Send bad request response to consumers.
func (u *HTTPHelper) SendBadRequest(c *gin.Context, message string, data interface{}) error {
	return u.SendError(c, message, data, codeBadRequestError, `badRequest`)
}

// SendValidationError ...
// Send validation error response to consumers.
func (u *HTTPHelper) SendValidationError(c *gin.Context, validationErrors validator.ValidationErrors) error {
	errorResponse := map[string][]string{}
	errorTranslation := validationErrors.Translate(u.Translator)
	for _, err := range validationErrors {
		errKey := Underscore(err.Field())
		errorResponse[errKey] = append(errorResponse[errKey], errorTranslation[err.Namespace()])
	}

	c.JSON(http.StatusBadRequest, map[string]interface{}{
		"code":         codeValidationError,
		"code_type":    "validationError",
		"code_message": "Validation failed",
		"data":         errorResponse,
	})
	return nil
}

// SendUnauthorizedError ...
// Send unauthorized response to consumers.
func (u *HTTPHelper) SendUnauthorizedError(c *gin.Context, message string, data interface{}) error {
	return u.SendError(c, message, data, codeUnauthorizedError, `unAuthorized`)
}

// SendForbiddenError ...
func (u *HTTPHelper) SendForbiddenError(c *gin.Context, message string, data interface{}) error {
	return u.SendError(c, message, data, codeForbidden, `forbidden`)
}

// SendNotFoundError ...
// Send not found response to consumers.
func (u *HTTPHelper) SendNotFoundError(c *gin.Context, message string, data interface{}) error {
	return u.SendError(c, message, data, codeNotFound, `notFound`)
}

// SendConflictError ...
func (u *HTTPHelper) SendConflictError(c *gin.Context, message string, data interface{}) error {
	return u.SendError(c, message, data, codeConflict, `conflict`)
}

// SendTooManyRequests ...
func (u *HTTPHelper) SendTooManyRequests(c *gin.Context, message string, data interface{}) error {
	return u.SendError(c, message, data, codeTooManyRequests, `tooManyRequests`)
}

// SendInternalError ...
func (u *HTTPHelper) SendInternalError(c *gin.Context, message string, data interface{}) error {
	return u.SendError(c, message, data, codeInternalError, `internalError`)
}

// SendAppError ...
// Translate a service error into a response. Only the user-safe message is sent;
// the full chain goes to the log.
func (u *HTTPHelper) SendAppError(c *gin.Context, err error) error {
	var (
		validationErr   *models.ErrorValidation
		unauthorizedErr *models.ErrorUnauthorized
		forbiddenErr    *models.ErrorForbidden
		notFoundErr     *models.ErrorNotFound
		conflictErr     *models.ErrorConflict
		internalErr     *models.ErrorInternalServer
		exhaustedErr    *models.ErrorDeleteExhausted
	)

	switch {
	case errors.As(err, &validationErr):
		return u.SendBadRequest(c, validationErr.Message, u.EmptyJsonMap())
	case errors.As(err, &unauthorizedErr):
		return u.SendUnauthorizedError(c, unauthorizedErr.Message, u.EmptyJsonMap())
	case errors.As(err, &forbiddenErr):
		return u.SendForbiddenError(c, forbiddenErr.Message, u.EmptyJsonMap())
	case errors.As(err, &notFoundErr):
		return u.SendNotFoundError(c, notFoundErr.Error(), u.EmptyJsonMap())
	case errors.As(err, &conflictErr):
		return u.SendConflictError(c, conflictErr.Message, u.EmptyJsonMap())
	case errors.As(err, &exhaustedErr):
		u.Logger.Error("post delete exhausted",
			zap.String("post_id", exhaustedErr.PostID),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		failed := make([]string, 0, len(exhaustedErr.Failures))
		for _, f := range exhaustedErr.Failures {
			failed = append(failed, f.Strategy)
		}
		return u.SendInternalError(c, "Failed to delete post. Refresh the list and try again.", map[string]interface{}{
			"post_id":           exhaustedErr.PostID,
			"failed_strategies": failed,
		})
	case errors.As(err, &internalErr):
		u.Logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		return u.SendInternalError(c, internalErr.Message, u.EmptyJsonMap())
	default:
		u.Logger.Error("unhandled error", zap.String("path", c.FullPath()), zap.Error(err))
		return u.SendInternalError(c, "Internal server error", u.EmptyJsonMap())
	}
}

// SendSuccess ...
// Send success response to consumers.
func (u *HTTPHelper) SendSuccess(c *gin.Context, message string, data interface{}) error {
	res := u.SetResponse(c, textOk, message, data, codeSuccess, `success`)

	return u.SendResponse(res)
}

// SendCreated ...
func (u *HTTPHelper) SendCreated(c *gin.Context, message string, data interface{}) error {
	res := u.SetResponse(c, textOk, message, data, codeCreated, `created`)

	return u.SendResponse(res)
}

// SendResponse ...
// Send response
func (u *HTTPHelper) SendResponse(res ResponseHelper) error {
	if len(res.Message) == 0 {
		res.Message = `success`
	}

	resCode, ok := httpStatusByCode[res.Code]
	if !ok {
		resCode = http.StatusBadRequest
	}

	res.C.JSON(resCode, map[string]interface{}{
		"code":         res.Code,
		"code_type":    res.CodeType,
		"code_message": res.Message,
		"data":         res.Data,
	})
	return nil
}

// ValidateRequest validates an already bound request and writes the
// validation response when it fails.
func (u *HTTPHelper) ValidateRequest(c *gin.Context, req interface{}) bool {
	err := u.Validate.Struct(req)
	if err == nil {
		return true
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		u.SendValidationError(c, validationErrors)
		return false
	}
	u.SendBadRequest(c, err.Error(), u.EmptyJsonMap())
	return false
}

func (u *HTTPHelper) EmptyJsonMap() map[string]interface{} {
	return make(map[string]interface{})
}

// get pagination URL
func (u *HTTPHelper) GetPagingUrl(c *gin.Context, page, limit int) string {
	r := c.Request
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	currentURL := scheme + "://" + r.Host + r.URL.Path + "?page=" + strconv.Itoa(page) + "&limit=" + strconv.Itoa(limit)
	return currentURL
}

// Set paginantion response
func (u *HTTPHelper) GeneratePaging(c *gin.Context, limit, page, totalRecord int) map[string]interface{} {
	prevURL, nextURL, firstURL, lastURL := "", "", "", ""

	totalPages := int(math.Ceil(float64(totalRecord) / float64(limit)))

	if totalPages >= page && page > 1 {
		prevURL = u.GetPagingUrl(c, page-1, limit)
		firstURL = u.GetPagingUrl(c, 1, limit)
	}

	if totalPages > page {
		nextURL = u.GetPagingUrl(c, page+1, limit)
	}

	if totalPages >= page && totalPages != page {
		lastURL = u.GetPagingUrl(c, totalPages, limit)
	}

	return map[string]interface{}{
		"total_records": totalRecord,
		"per_page":      limit,
		"current_page":  page,
		"total_pages":   totalPages,
		"links": map[string]interface{}{
			"previous": prevURL,
			"next":     nextURL,
			"first":    firstURL,
			"last":     lastURL,
		},
	}
}
