package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/inklude/internal/coref"
	"github.com/fyrsmithlabs/inklude/internal/sanitize"
)

func (s *Server) handleAnalyzeText(c echo.Context) error {
	var req AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		return s.invalidBody(c, err)
	}
	return s.analyze(c, req.Text, req.Tone, nil)
}

func (s *Server) handleCheckPronouns(c echo.Context) error {
	var req PronounCheckRequest
	if err := c.Bind(&req); err != nil {
		return s.invalidBody(c, err)
	}
	identities, err := sanitize.Identities(req.Identities)
	if err != nil {
		return httpError(err)
	}
	return s.analyze(c, req.Text, req.Tone, identities)
}

func (s *Server) analyze(c echo.Context, text, toneName string, identities coref.IdentityMap) error {
	if err := sanitize.Text(text, s.config.MaxTextLength); err != nil {
		return httpError(err)
	}
	tone, err := sanitize.Tone(toneName, s.engine.DefaultTone())
	if err != nil {
		return httpError(err)
	}

	ctx := c.Request().Context()
	result, err := s.engine.Analyze(ctx, text, tone, identities)
	if err != nil {
		return httpError(err)
	}

	s.logger.Debug(ctx, "analysis complete",
		zap.Int("text_length", result.TextLength),
		zap.Int("issues", len(result.Issues)),
		zap.Int("identities", len(identities)))
	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleAnalyzeBatch(c echo.Context) error {
	var req BatchRequest
	if err := c.Bind(&req); err != nil {
		return s.invalidBody(c, err)
	}
	if err := sanitize.Batch(req.Texts, s.config.MaxBatchSize, s.config.MaxTextLength); err != nil {
		return httpError(err)
	}
	tone, err := sanitize.Tone(req.Tone, s.engine.DefaultTone())
	if err != nil {
		return httpError(err)
	}

	ctx := c.Request().Context()
	results, err := s.engine.AnalyzeBatch(ctx, req.Texts, tone, nil)
	if err != nil {
		return httpError(err)
	}

	s.logger.Debug(ctx, "batch analysis complete", zap.Int("texts", len(results)))
	return c.JSON(http.StatusOK, BatchResponse{Results: results})
}

func (s *Server) invalidBody(c echo.Context, err error) error {
	s.logger.Warn(c.Request().Context(), "invalid request body", zap.Error(err))
	return echo.NewHTTPError(http.StatusBadRequest, "invalid request body").SetInternal(err)
}
