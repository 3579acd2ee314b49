package http

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/vadimbarashkov/bytelink/internal/entity"
)

const (
	statusError = "error"

	kindInvalidRequest = "invalid_request"
)

// shortenRequest represents the structure for a request to shorten a URL.
type shortenRequest struct {
	OriginalURL string `json:"original_url" validate:"required,url"`
	CustomCode  string `json:"custom_code" validate:"omitempty,alphanum,max=20"`
}

// modifyRequest represents the structure for a request to modify a link.
// Omitted fields and an empty custom_code are left unchanged.
type modifyRequest struct {
	OriginalURL *string `json:"original_url" validate:"omitempty,url"`
	CustomCode  *string `json:"custom_code" validate:"omitempty,alphanum|len=0,max=20"`
}

func (req modifyRequest) toChanges() entity.LinkChanges {
	return entity.LinkChanges{
		OriginalURL: req.OriginalURL,
		CustomCode:  req.CustomCode,
	}
}

// linkResponse represents the structure for a response containing link information.
type linkResponse struct {
	ID          uuid.UUID `json:"id"`
	OriginalURL string    `json:"original_url"`
	ShortCode   string    `json:"short_code"`
	ShortURL    string    `json:"short_url"`
	Clicks      int64     `json:"clicks"`
	QRCode      string    `json:"qr_code"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toLinkResponse(link *entity.Link) linkResponse {
	return linkResponse{
		ID:          link.ID,
		OriginalURL: link.OriginalURL,
		ShortCode:   link.ShortCode,
		ShortURL:    link.ShortURL,
		Clicks:      link.Clicks,
		QRCode:      link.QRCode,
		IsActive:    link.IsActive,
		CreatedAt:   link.CreatedAt,
		UpdatedAt:   link.UpdatedAt,
	}
}

type paginationResponse struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalURLs   int64 `json:"total_urls"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

type linkListResponse struct {
	URLs       []linkResponse     `json:"urls"`
	Pagination paginationResponse `json:"pagination"`
}

func toLinkListResponse(page *entity.LinkPage) linkListResponse {
	urls := make([]linkResponse, 0, len(page.Links))
	for _, link := range page.Links {
		urls = append(urls, toLinkResponse(link))
	}

	return linkListResponse{
		URLs: urls,
		Pagination: paginationResponse{
			CurrentPage: page.Pagination.CurrentPage,
			TotalPages:  page.Pagination.TotalPages,
			TotalURLs:   page.Pagination.TotalURLs,
			HasNext:     page.Pagination.HasNext,
			HasPrev:     page.Pagination.HasPrev,
		},
	}
}

type refererCountResponse struct {
	Referer string `json:"referer"`
	Count   int64  `json:"count"`
}

type dailyClicksResponse struct {
	Date   string `json:"date"`
	Clicks int64  `json:"clicks"`
}

func toDailyClicksResponse(days []entity.DailyClicks) []dailyClicksResponse {
	out := make([]dailyClicksResponse, 0, len(days))
	for _, d := range days {
		out = append(out, dailyClicksResponse{Date: d.Date, Clicks: d.Clicks})
	}
	return out
}

// analyticsResponse represents the statistics computed from a link's click stream.
type analyticsResponse struct {
	Total       int64                  `json:"total"`
	Last24Hours int64                  `json:"last_24_hours"`
	Last7Days   int64                  `json:"last_7_days"`
	Last30Days  int64                  `json:"last_30_days"`
	TopReferers []refererCountResponse `json:"top_referers"`
	ClicksByDay []dailyClicksResponse  `json:"clicks_by_day"`
}

func toAnalyticsResponse(s entity.AnalyticsSummary) analyticsResponse {
	referers := make([]refererCountResponse, 0, len(s.TopReferers))
	for _, rc := range s.TopReferers {
		referers = append(referers, refererCountResponse{Referer: rc.Referer, Count: rc.Count})
	}

	return analyticsResponse{
		Total:       s.Total,
		Last24Hours: s.Last24Hours,
		Last7Days:   s.Last7Days,
		Last30Days:  s.Last30Days,
		TopReferers: referers,
		ClicksByDay: toDailyClicksResponse(s.ClicksByDay),
	}
}

// linkDetailsResponse is a link together with its statistics.
type linkDetailsResponse struct {
	linkResponse
	Analytics analyticsResponse `json:"analytics"`
}

// linkAnalyticsResponse is the statistics of a link flattened next to its identity.
type linkAnalyticsResponse struct {
	ID          uuid.UUID `json:"id"`
	ShortCode   string    `json:"short_code"`
	ShortURL    string    `json:"short_url"`
	OriginalURL string    `json:"original_url"`
	CreatedAt   time.Time `json:"created_at"`
	analyticsResponse
}

func toLinkDetailsResponse(stats *entity.LinkStats) linkDetailsResponse {
	return linkDetailsResponse{
		linkResponse: toLinkResponse(stats.Link),
		Analytics:    toAnalyticsResponse(stats.Summary),
	}
}

func toLinkAnalyticsResponse(stats *entity.LinkStats) linkAnalyticsResponse {
	return linkAnalyticsResponse{
		ID:                stats.Link.ID,
		ShortCode:         stats.Link.ShortCode,
		ShortURL:          stats.Link.ShortURL,
		OriginalURL:       stats.Link.OriginalURL,
		CreatedAt:         stats.Link.CreatedAt,
		analyticsResponse: toAnalyticsResponse(stats.Summary),
	}
}

type linkOverviewResponse struct {
	ID          uuid.UUID `json:"id"`
	ShortCode   string    `json:"short_code"`
	ShortURL    string    `json:"short_url"`
	OriginalURL string    `json:"original_url"`
	Clicks      int64     `json:"clicks"`
	CreatedAt   time.Time `json:"created_at"`
}

func toLinkOverviewResponses(links []entity.LinkOverview) []linkOverviewResponse {
	out := make([]linkOverviewResponse, 0, len(links))
	for _, l := range links {
		out = append(out, linkOverviewResponse{
			ID:          l.ID,
			ShortCode:   l.ShortCode,
			ShortURL:    l.ShortURL,
			OriginalURL: l.OriginalURL,
			Clicks:      l.Clicks,
			CreatedAt:   l.CreatedAt,
		})
	}
	return out
}

// dashboardResponse represents aggregates across all active links.
type dashboardResponse struct {
	TotalURLs      int64                  `json:"total_urls"`
	TotalClicks    int64                  `json:"total_clicks"`
	RecentURLs     []linkOverviewResponse `json:"recent_urls"`
	TopURLs        []linkOverviewResponse `json:"top_urls"`
	ClicksOverTime []dailyClicksResponse  `json:"clicks_over_time"`
}

func toDashboardResponse(d *entity.DashboardSummary) dashboardResponse {
	return dashboardResponse{
		TotalURLs:      d.TotalURLs,
		TotalClicks:    d.TotalClicks,
		RecentURLs:     toLinkOverviewResponses(d.RecentURLs),
		TopURLs:        toLinkOverviewResponses(d.TopURLs),
		ClicksOverTime: toDailyClicksResponse(d.ClicksOverTime),
	}
}

// validationError represents an individual validation error.
type validationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// errorResponse represents a structured error response.
type errorResponse struct {
	Status  string            `json:"status"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Errors  []validationError `json:"errors,omitempty"`
}

// Predefined error responses for common scenarios.
var (
	emptyRequestBodyResponse = errorResponse{
		Status:  statusError,
		Code:    kindInvalidRequest,
		Message: "empty request body",
	}

	invalidRequestBodyResponse = errorResponse{
		Status:  statusError,
		Code:    kindInvalidRequest,
		Message: "invalid request body",
	}

	linkNotFoundResponse = errorResponse{
		Status:  statusError,
		Code:    entity.KindNotFound,
		Message: "link not found",
	}

	serverErrorResponse = errorResponse{
		Status:  statusError,
		Code:    entity.KindInternal,
		Message: "server error occurred",
	}
)

// domainErrorResponse builds the response for an error returned by the use case.
// Errors of unknown kind are reported as a server error without details.
func domainErrorResponse(err error) errorResponse {
	kind := entity.KindOf(err)

	switch kind {
	case entity.KindInternal:
		return serverErrorResponse
	case entity.KindNotFound:
		return linkNotFoundResponse
	}

	return errorResponse{
		Status:  statusError,
		Code:    kind,
		Message: messageForKind(kind),
	}
}

func messageForKind(kind string) string {
	switch kind {
	case entity.KindInvalidURL:
		return entity.ErrInvalidURL.Error()
	case entity.KindInvalidCode:
		return entity.ErrInvalidCode.Error()
	case entity.KindCodeTaken:
		return "short code already in use"
	case entity.KindAllocationExhausted:
		return "could not allocate a short code, try again"
	case entity.KindStoreUnavailable:
		return "service temporarily unavailable"
	default:
		return "server error occurred"
	}
}

// messageForTag returns a user-friendly message based on the validation tag.
func messageForTag(tag string) string {
	switch tag {
	case "required":
		return "this field is required"
	case "url":
		return "invalid url"
	case "alphanum":
		return "only letters and digits are allowed"
	case "max":
		return "value is too long"
	default:
		return "invalid value"
	}
}

// getValidationErrors processes validation errors and returns a list of validationError.
func getValidationErrors(err error) []validationError {
	var validationErrs []validationError

	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		for _, e := range errs {
			validationErrs = append(validationErrs, validationError{
				Field:   e.Field(),
				Message: messageForTag(e.Tag()),
			})
		}
	}

	return validationErrs
}

// validationErrorResponse constructs an errorResponse for validation errors.
// The code follows the first failing field.
func validationErrorResponse(err error) errorResponse {
	errs := getValidationErrors(err)

	code := kindInvalidRequest
	if len(errs) > 0 {
		switch errs[0].Field {
		case "original_url":
			code = entity.KindInvalidURL
		case "custom_code":
			code = entity.KindInvalidCode
		}
	}

	return errorResponse{
		Status:  statusError,
		Code:    code,
		Message: "validation error",
		Errors:  errs,
	}
}
