package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Mashfooq/be-news-aggregator/internal/domain"
)

type preferencesPayload struct {
	SourceIDs   []int64 `json:"source_ids"`
	CategoryIDs []int64 `json:"category_ids"`
}

func (s *Server) getPreferences(c echo.Context) error {
	prefs, err := s.preferences.PreferencesByUser(c.Request().Context(), currentUserID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, preferencesPayload{
		SourceIDs:   prefs.SourceIDs,
		CategoryIDs: prefs.CategoryIDs,
	})
}

func (s *Server) savePreferences(c echo.Context) error {
	var req preferencesPayload
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	err := s.preferences.ReplacePreferences(c.Request().Context(), currentUserID(c), domain.Preferences{
		SourceIDs:   req.SourceIDs,
		CategoryIDs: req.CategoryIDs,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Preferences saved successfully!"})
}
