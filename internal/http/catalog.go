package http

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fyrsmithlabs/inklude/internal/lexicon"
	"github.com/fyrsmithlabs/inklude/internal/neopronoun"
)

func (s *Server) handleListNeoPronouns(c echo.Context) error {
	registry := s.engine.NeoPronouns()

	var sets []neopronoun.Set
	if p := c.QueryParam("popularity"); p != "" {
		popularity := neopronoun.Popularity(strings.ToLower(p))
		if !popularity.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("unknown popularity %q (expected one of %s)", p, joinValues(neopronoun.Popularities)))
		}
		sets = registry.ByPopularity(popularity)
	} else {
		sets = registry.All()
	}
	if sets == nil {
		sets = []neopronoun.Set{}
	}
	return c.JSON(http.StatusOK, NeoPronounListResponse{Count: len(sets), Sets: sets})
}

func (s *Server) handleCheckNeoPronoun(c echo.Context) error {
	token := strings.TrimSpace(c.QueryParam("token"))
	if token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "token query parameter is required")
	}
	matches := s.engine.NeoPronouns().Classify(token)
	if matches == nil {
		matches = []neopronoun.Match{}
	}
	return c.JSON(http.StatusOK, NeoPronounCheckResponse{
		Token:        token,
		IsNeoPronoun: len(matches) > 0,
		Matches:      matches,
	})
}

func (s *Server) handleGetNeoPronounSet(c echo.Context) error {
	label, err := url.PathUnescape(c.Param("*"))
	if err != nil || label == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid set label")
	}
	set, ok := s.engine.NeoPronouns().ByLabel(label)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("neo-pronoun set %q not found", label))
	}
	return c.JSON(http.StatusOK, set)
}

func (s *Server) handleListLexicon(c echo.Context) error {
	registry := s.engine.Lexicon()

	var entries []lexicon.Entry
	if raw := c.QueryParam("category"); raw != "" {
		category := lexicon.Category(strings.ToLower(raw))
		if !category.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("unknown category %q (expected one of %s)", raw, joinValues(lexicon.Categories)))
		}
		entries = registry.ByCategory(category)
	} else {
		entries = registry.Entries()
	}
	if entries == nil {
		entries = []lexicon.Entry{}
	}
	return c.JSON(http.StatusOK, LexiconResponse{Count: len(entries), Entries: entries})
}

func joinValues[T ~string](values []T) string {
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = string(v)
	}
	return strings.Join(names, ", ")
}
