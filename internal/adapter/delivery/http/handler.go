package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/url-popularity/internal/entity"
	"github.com/vadimbarashkov/url-popularity/internal/usecase"
	"github.com/vadimbarashkov/url-popularity/pkg/response"
)

func handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "pong")
}

type urlUseCase interface {
	ShortenURL(ctx context.Context, originalURL, clientIP string) (*entity.Shortening, error)
	ResolveShortKey(ctx context.Context, key string) (string, error)
	GetURLStats(ctx context.Context, key string) (*entity.URLStats, error)
	TotalUniqueRequests(ctx context.Context) (int64, error)
	MostPopularURLs(ctx context.Context, n int) ([]string, error)
}

type urlHandler struct {
	useCase  urlUseCase
	validate *validator.Validate
	cfg      Config
}

func newURLHandler(useCase urlUseCase, validate *validator.Validate, cfg Config) *urlHandler {
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &urlHandler{
		useCase:  useCase,
		validate: validate,
		cfg:      cfg,
	}
}

func notFoundResponse(key string) response.Response {
	return response.NotFoundResponse(fmt.Sprintf("Shortened url with key '%s' is not found.", key))
}

func serverError(w http.ResponseWriter, r *http.Request, op string, err error) {
	httplog.LogEntrySetFields(r.Context(), map[string]any{
		"op":  op,
		"err": err,
	})

	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, response.ServerErrorResponse)
}

func (h *urlHandler) shortenURL(w http.ResponseWriter, r *http.Request) {
	const op = "adapter.delivery.http.urlHandler.shortenURL"

	var req shortenRequest

	if err := render.DecodeJSON(r.Body, &req); err != nil {
		if errors.Is(err, io.EOF) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.EmptyRequestBodyResponse)
			return
		}

		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.InvalidRequestBodyResponse)
		return
	}

	req.URL = normalizeURL(req.URL)

	if err := h.validate.Struct(req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationErrorResponse(err))
		return
	}

	res, err := h.useCase.ShortenURL(r.Context(), req.URL, clientIP(r))
	if err != nil {
		serverError(w, r, op, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.SuccessResponse(
		http.StatusCreated,
		"URL shortened successfully.",
		toShortenResponse(h.cfg.BaseURL, res),
	))
}

func (h *urlHandler) resolveShortKey(w http.ResponseWriter, r *http.Request) {
	const op = "adapter.delivery.http.urlHandler.resolveShortKey"

	key := chi.URLParam(r, "key")

	originalURL, err := h.useCase.ResolveShortKey(r.Context(), key)
	if err != nil {
		if errors.Is(err, entity.ErrShortKeyNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, notFoundResponse(key))
			return
		}

		serverError(w, r, op, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, response.SuccessResponse(
		http.StatusOK,
		"Short key resolved successfully.",
		resolveResponse{Key: key, OriginalURL: originalURL},
	))
}

func (h *urlHandler) redirect(w http.ResponseWriter, r *http.Request) {
	const op = "adapter.delivery.http.urlHandler.redirect"

	key := chi.URLParam(r, "key")

	originalURL, err := h.useCase.ResolveShortKey(r.Context(), key)
	if err != nil {
		if errors.Is(err, entity.ErrShortKeyNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, notFoundResponse(key))
			return
		}

		serverError(w, r, op, err)
		return
	}

	http.Redirect(w, r, originalURL, http.StatusFound)
}

func (h *urlHandler) getURLStats(w http.ResponseWriter, r *http.Request) {
	const op = "adapter.delivery.http.urlHandler.getURLStats"

	key := chi.URLParam(r, "key")

	stats, err := h.useCase.GetURLStats(r.Context(), key)
	if err != nil {
		if errors.Is(err, entity.ErrShortKeyNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, notFoundResponse(key))
			return
		}

		serverError(w, r, op, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, response.SuccessResponse(
		http.StatusOK,
		"URL stats retrieved successfully.",
		toURLStatsResponse(key, stats),
	))
}

func (h *urlHandler) totalUniqueRequests(w http.ResponseWriter, r *http.Request) {
	const op = "adapter.delivery.http.urlHandler.totalUniqueRequests"

	total, err := h.useCase.TotalUniqueRequests(r.Context())
	if err != nil {
		serverError(w, r, op, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, response.SuccessResponse(
		http.StatusOK,
		"Total unique requests retrieved successfully.",
		totalResponse{TotalUniqueRequests: total},
	))
}

func (h *urlHandler) mostPopularURLs(w http.ResponseWriter, r *http.Request) {
	const op = "adapter.delivery.http.urlHandler.mostPopularURLs"

	limit := h.cfg.DefaultPopularLimit

	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > h.cfg.MaxPopularLimit {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.BadRequestResponse(fmt.Sprintf(
				"Query parameter 'limit' must be an integer between 1 and %d.", h.cfg.MaxPopularLimit,
			)))
			return
		}
		limit = n
	}

	urls, err := h.useCase.MostPopularURLs(r.Context(), limit)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidLimit) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.BadRequestResponse("Query parameter 'limit' must be positive."))
			return
		}

		serverError(w, r, op, err)
		return
	}
	if urls == nil {
		urls = []string{}
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, response.SuccessResponse(
		http.StatusOK,
		"Most popular URLs retrieved successfully.",
		urls,
	))
}

// normalizeURL trims raw, prepends http:// when no scheme is given and
// lower-cases the scheme and host. Unparsable input is returned trimmed and
// left for validation to reject.
func normalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)

	return u.String()
}

// clientIP returns the request's client address without a port. It relies on
// middleware.RealIP having replaced RemoteAddr with a forwarded address when present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func shortURL(baseURL, key string) string {
	return strings.TrimRight(baseURL, "/") + "/" + key
}
