package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/vadimbarashkov/bytelink/internal/entity"
)

func handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "pong")
}

type linkUseCase interface {
	ShortenURL(ctx context.Context, originalURL, customCode string) (*entity.Link, error)
	RecordClick(ctx context.Context, shortCode string, click entity.Click) (*entity.ClickResult, error)
	GetLinkAnalytics(ctx context.Context, id uuid.UUID) (*entity.LinkStats, error)
	ListLinks(ctx context.Context, page, limit int) (*entity.LinkPage, error)
	ModifyLink(ctx context.Context, id uuid.UUID, changes entity.LinkChanges) (*entity.Link, error)
	DeactivateLink(ctx context.Context, id uuid.UUID) error
	GetDashboard(ctx context.Context) (*entity.DashboardSummary, error)
}

type linkHandler struct {
	useCase  linkUseCase
	validate *validator.Validate
}

func newLinkHandler(useCase linkUseCase, validate *validator.Validate) *linkHandler {
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &linkHandler{
		useCase:  useCase,
		validate: validate,
	}
}

// statusForKind maps an error kind to the HTTP status reported to the client.
func statusForKind(kind string) int {
	switch kind {
	case entity.KindInvalidURL, entity.KindInvalidCode:
		return http.StatusBadRequest
	case entity.KindCodeTaken:
		return http.StatusConflict
	case entity.KindNotFound:
		return http.StatusNotFound
	case entity.KindAllocationExhausted, entity.KindStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForKind(entity.KindOf(err))
	if status >= http.StatusInternalServerError {
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))
	}

	render.Status(r, status)
	render.JSON(w, r, domainErrorResponse(err))
}

// decodeRequest decodes and validates the JSON body into req. On failure
// the error response is already written.
func (h *linkHandler) decodeRequest(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := render.DecodeJSON(r.Body, req); err != nil {
		if errors.Is(err, io.EOF) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, emptyRequestBodyResponse)
			return false
		}

		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, invalidRequestBodyResponse)
		return false
	}

	if err := h.validate.Struct(req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, validationErrorResponse(err))
		return false
	}

	return true
}

// linkID parses the id path parameter. A malformed id cannot name a link.
func linkID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, linkNotFoundResponse)
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}

// clientIP returns the client address. RemoteAddr carries no port once
// middleware.RealIP has replaced it from a proxy header.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (h *linkHandler) shortenURL(w http.ResponseWriter, r *http.Request) {
	var req shortenRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}

	link, err := h.useCase.ShortenURL(r.Context(), req.OriginalURL, req.CustomCode)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toLinkResponse(link))
}

func (h *linkHandler) listLinks(w http.ResponseWriter, r *http.Request) {
	page, err := h.useCase.ListLinks(r.Context(), queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toLinkListResponse(page))
}

func (h *linkHandler) getLink(w http.ResponseWriter, r *http.Request) {
	id, ok := linkID(w, r)
	if !ok {
		return
	}

	stats, err := h.useCase.GetLinkAnalytics(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toLinkDetailsResponse(stats))
}

func (h *linkHandler) getLinkAnalytics(w http.ResponseWriter, r *http.Request) {
	id, ok := linkID(w, r)
	if !ok {
		return
	}

	stats, err := h.useCase.GetLinkAnalytics(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toLinkAnalyticsResponse(stats))
}

func (h *linkHandler) modifyLink(w http.ResponseWriter, r *http.Request) {
	id, ok := linkID(w, r)
	if !ok {
		return
	}

	var req modifyRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}

	link, err := h.useCase.ModifyLink(r.Context(), id, req.toChanges())
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toLinkResponse(link))
}

func (h *linkHandler) deactivateLink(w http.ResponseWriter, r *http.Request) {
	id, ok := linkID(w, r)
	if !ok {
		return
	}

	if err := h.useCase.DeactivateLink(r.Context(), id); err != nil {
		renderError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *linkHandler) getDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.useCase.GetDashboard(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toDashboardResponse(dashboard))
}

func (h *linkHandler) redirect(w http.ResponseWriter, r *http.Request) {
	shortCode := chi.URLParam(r, "shortCode")

	res, err := h.useCase.RecordClick(r.Context(), shortCode, entity.Click{
		UserAgent: r.UserAgent(),
		IP:        clientIP(r),
		Referer:   r.Referer(),
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	http.Redirect(w, r, res.OriginalURL, http.StatusFound)
}
