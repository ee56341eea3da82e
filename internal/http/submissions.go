package http

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/inklude/internal/logging"
	"github.com/fyrsmithlabs/inklude/internal/submissions"
)

// SubmittedByHeader optionally names the submitter.
const SubmittedByHeader = "X-Submitted-By"

const maxSubmitterLength = 100

func (s *Server) handleSubmitPronouns(c echo.Context) error {
	var req submissions.Create
	if err := c.Bind(&req); err != nil {
		return s.invalidBody(c, err)
	}

	submittedBy := strings.TrimSpace(c.Request().Header.Get(SubmittedByHeader))
	if utf8.RuneCountInString(submittedBy) > maxSubmitterLength {
		return echo.NewHTTPError(http.StatusBadRequest, SubmittedByHeader+" header too long")
	}

	sub, err := s.submissions.Submit(req, submittedBy)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, sub)
}

func (s *Server) handleListSubmissions(c echo.Context) error {
	return c.JSON(http.StatusOK, s.submissions.List())
}

func (s *Server) handleApproveSubmission(c echo.Context) error {
	sub, err := s.submissions.Approve(c.Param("id"))
	if err != nil {
		s.logger.Warn(c.Request().Context(), "approval failed", zap.String("id", c.Param("id")), zap.Error(err))
		return httpError(err)
	}
	return c.JSON(http.StatusOK, sub)
}

// handleDeleteSubmission lets the submitter named in X-Submitted-By, or an
// admin, withdraw a submission.
func (s *Server) handleDeleteSubmission(c echo.Context) error {
	id := c.Param("id")
	admin := validAdminKey(s.config.AdminAPIKey, c.Request().Header.Get(AdminKeyHeader))
	submitter := strings.TrimSpace(c.Request().Header.Get(SubmittedByHeader))
	if !admin && submitter == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "admin key or "+SubmittedByHeader+" header required")
	}

	sub, err := s.submissions.Get(id)
	if err != nil {
		return httpError(err)
	}
	if !admin && (sub.SubmittedBy == "" || sub.SubmittedBy != submitter) {
		s.logger.Warn(c.Request().Context(), "delete denied",
			zap.String("id", id),
			logging.RedactedString("submitted_by", submitter))
		return echo.NewHTTPError(http.StatusForbidden, "only the submitter or an admin can delete a submission")
	}

	if err := s.submissions.Delete(id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
