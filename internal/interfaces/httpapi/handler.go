package httpapi

import (
	"context"
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/football-query/internal/domain/lexicon"
	"github.com/riskibarqy/football-query/internal/domain/query"
	"github.com/riskibarqy/football-query/internal/platform/logging"
	"github.com/riskibarqy/football-query/internal/usecase"
)

const maxQueryBodyBytes = 16 << 10

// QueryRunner answers one free-text query. *usecase.QueryService implements it.
type QueryRunner interface {
	RunQuery(ctx context.Context, text string, lang query.Language) (usecase.QueryResult, error)
}

type Handler struct {
	runner    QueryRunner
	lexicon   *lexicon.Lexicon
	logger    *logging.Logger
	validator *validator.Validate
}

func NewHandler(runner QueryRunner, lex *lexicon.Lexicon, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if lex == nil {
		lex = lexicon.Default()
	}

	return &Handler{
		runner:    runner,
		lexicon:   lex,
		logger:    logger,
		validator: validator.New(),
	}
}

type runQueryRequest struct {
	Query    string `json:"query" validate:"max=500"`
	Language string `json:"language" validate:"omitempty,max=8"`
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// RunQuery handles POST /v1/queries.
func (h *Handler) RunQuery(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunQuery")
	defer span.End()

	var req runQueryRequest
	decoder := sonic.ConfigDefault.NewDecoder(http.MaxBytesReader(w, r.Body, maxQueryBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "decode query request failed", "error", err)
		writeError(ctx, w, query.LanguageEnglish, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, query.LanguageEnglish, err)
		return
	}

	if req.Language == "" {
		req.Language = string(query.LanguageEnglish)
	}
	lang, ok := query.ParseLanguage(req.Language)
	responseLang := lang
	if !ok {
		// The core reports the unsupported language itself.
		lang = query.Language(req.Language)
		responseLang = query.LanguageEnglish
	}

	result, err := h.runner.RunQuery(ctx, req.Query, lang)
	if err != nil {
		writeError(ctx, w, responseLang, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, NewQueryResponse(ctx, h.lexicon, responseLang, result))
}

// SupportedQueries handles GET /v1/queries/supported and lists the intent
// labels per language.
func (h *Handler) SupportedQueries(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SupportedQueries")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, supportedQueriesDTO{
		Languages: query.Languages,
		Intents:   h.lexicon.SupportedIntents(),
	})
}
