package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Mashfooq/be-news-aggregator/internal/domain"
)

type refResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type articleResponse struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Content     *string     `json:"content"`
	URL         string      `json:"url"`
	ImageURL    *string     `json:"image_url"`
	PublishedAt time.Time   `json:"published_at"`
	Source      refResponse `json:"source"`
	Category    refResponse `json:"category"`
}

type articleListResponse struct {
	Data []articleResponse `json:"data"`
	Meta listMeta          `json:"meta"`
}

type listMeta struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
}

func (s *Server) listArticles(c echo.Context) error {
	filter, err := filterFromQuery(c)
	if err != nil {
		return err
	}

	return s.respondWithList(c, filter)
}

func (s *Server) getArticle(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid article id")
	}

	view, err := s.articles.GetArticle(c.Request().Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "article not found")
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toArticleResponse(view))
}

// newsFeed is listArticles restricted to the caller's stored preferences.
// Users without preferences get the unrestricted listing.
func (s *Server) newsFeed(c echo.Context) error {
	prefs, err := s.preferences.PreferencesByUser(c.Request().Context(), currentUserID(c))
	if err != nil {
		return err
	}

	filter := domain.ArticleFilter{
		SourceIDs:   prefs.SourceIDs,
		CategoryIDs: prefs.CategoryIDs,
		Page:        intQuery(c, "page"),
	}

	return s.respondWithList(c, filter)
}

func (s *Server) respondWithList(c echo.Context, filter domain.ArticleFilter) error {
	views, total, err := s.articles.ListArticles(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	data := make([]articleResponse, 0, len(views))
	for _, view := range views {
		data = append(data, toArticleResponse(view))
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage < 1 {
		perPage = 10
	}

	return c.JSON(http.StatusOK, articleListResponse{
		Data: data,
		Meta: listMeta{Page: page, PerPage: perPage, Total: total},
	})
}

func filterFromQuery(c echo.Context) (domain.ArticleFilter, error) {
	filter := domain.ArticleFilter{
		Query:      c.QueryParam("q"),
		CategoryID: int64(intQuery(c, "category_id")),
		SourceID:   int64(intQuery(c, "source_id")),
		Page:       intQuery(c, "page"),
	}

	if date := c.QueryParam("date"); date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return domain.ArticleFilter{}, echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
		}
		filter.Date = date
	}

	return filter, nil
}

func intQuery(c echo.Context, name string) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return v
}

func toArticleResponse(view domain.ArticleView) articleResponse {
	return articleResponse{
		ID:          view.ID,
		Title:       view.Title,
		Content:     view.Content,
		URL:         view.URL,
		ImageURL:    view.ImageURL,
		PublishedAt: view.PublishedAt,
		Source:      refResponse{ID: view.SourceID, Name: view.SourceName},
		Category:    refResponse{ID: view.CategoryID, Name: view.CategoryName},
	}
}
