// Package handler exposes HTTP handlers for both authenticated and public
// endpoints.  This file defines handlers for the public browsing API.
// These routes let unauthenticated users browse movies, locations, screens
// and showtimes.  Internal fields (soft-delete timestamps, audit columns)
// are filtered from responses.
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinepass/ticket-booking/internal/model"
	"github.com/cinepass/ticket-booking/internal/repository"
)

// PublicHandler aggregates repositories needed for unauthenticated
// browsing.  It produces sanitized responses suitable for public
// consumption.
type PublicHandler struct {
	Movies    *repository.MovieRepo    // read access to movies
	Locations *repository.LocationRepo // read access to locations
	Screens   *repository.ScreenRepo   // read access to screens
	Seats     *repository.SeatRepo     // read access to seat layouts
	SeatTypes *repository.SeatTypeRepo // read access to seat types
	Showtimes *repository.ShowtimeRepo // read access to showtimes
}

// NewPublicHandler constructs a PublicHandler and panics if any
// dependency is nil.
func NewPublicHandler(m *repository.MovieRepo, l *repository.LocationRepo, sc *repository.ScreenRepo, se *repository.SeatRepo, st *repository.SeatTypeRepo, sh *repository.ShowtimeRepo) *PublicHandler {
	if m == nil || l == nil || sc == nil || se == nil || st == nil || sh == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{Movies: m, Locations: l, Screens: sc, Seats: se, SeatTypes: st, Showtimes: sh}
}

// ----- DTOs -----

type publicMovie struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type publicLocation struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

type publicScreen struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type publicSeat struct {
	ID       uint64  `json:"id"`
	Label    string  `json:"label"`
	SeatType string  `json:"seat_type"`
	Color    *string `json:"color,omitempty"`
	Icon     *string `json:"icon,omitempty"`
}

type publicShowtime struct {
	ID             uint64    `json:"id"`
	MovieID        uint64    `json:"movie_id"`
	LocationID     uint64    `json:"location_id"`
	ScreenID       uint64    `json:"screen_id"`
	StartsAt       time.Time `json:"starts_at"`
	EndsAt         time.Time `json:"ends_at"`
	BasePriceCents int64     `json:"base_price_cents"`
}

// ListMovies handles GET /v1/movies.  It returns every active movie in
// an "items" array.
func (h *PublicHandler) ListMovies(c echo.Context) error {
	movies, err := h.Movies.ListActive(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]publicMovie, 0, len(movies))
	for _, m := range movies {
		out = append(out, publicMovie{ID: m.ID, Name: m.Name})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// ListLocations handles GET /v1/locations.
func (h *PublicHandler) ListLocations(c echo.Context) error {
	locs, err := h.Locations.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]publicLocation, 0, len(locs))
	for _, l := range locs {
		out = append(out, publicLocation{ID: l.ID, Name: l.Name, Address: l.Address})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// ListScreens handles GET /v1/locations/:id/screens.
func (h *PublicHandler) ListScreens(c echo.Context) error {
	locID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid location id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Locations.GetByID(ctx, locID); err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "location not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	screens, err := h.Screens.ListByLocation(ctx, locID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]publicScreen, 0, len(screens))
	for _, s := range screens {
		out = append(out, publicScreen{ID: s.ID, Name: s.Name})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// ListScreenSeats handles GET /v1/screens/:id/seats.  The layout is
// returned in stable seat-id order with the seat type name attached to
// each seat so clients can render pricing tiers.
func (h *PublicHandler) ListScreenSeats(c echo.Context) error {
	screenID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid screen id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Screens.GetByID(ctx, screenID); err != nil {
		if errors.Is(err, repository.ErrScreenNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "screen not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	seats, err := h.Seats.ListByScreen(ctx, screenID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	types, err := h.SeatTypes.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	byID := make(map[uint64]int, len(types))
	for i, t := range types {
		byID[t.ID] = i
	}
	out := make([]publicSeat, 0, len(seats))
	for _, s := range seats {
		ps := publicSeat{ID: s.ID, Label: s.Label}
		if i, ok := byID[s.SeatTypeID]; ok {
			ps.SeatType = types[i].Name
			ps.Color = types[i].Color
			ps.Icon = types[i].Icon
		}
		out = append(out, ps)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// ListMovieShowtimes handles GET /v1/movies/:id/showtimes.  Only
// showtimes that have not started yet are returned.
func (h *PublicHandler) ListMovieShowtimes(c echo.Context) error {
	movieID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Movies.GetByID(ctx, movieID); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	shows, err := h.Showtimes.ListUpcomingByMovie(ctx, movieID, time.Now().UTC())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]publicShowtime, 0, len(shows))
	for _, s := range shows {
		out = append(out, toPublicShowtime(&s))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// ListLocationShowtimes handles GET /v1/locations/:id/showtimes.
func (h *PublicHandler) ListLocationShowtimes(c echo.Context) error {
	locID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid location id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Locations.GetByID(ctx, locID); err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "location not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	shows, err := h.Showtimes.ListUpcomingByLocation(ctx, locID, time.Now().UTC())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]publicShowtime, 0, len(shows))
	for _, s := range shows {
		out = append(out, toPublicShowtime(&s))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetShowtime handles GET /v1/showtimes/:id.
func (h *PublicHandler) GetShowtime(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}
	s, err := h.Showtimes.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrShowtimeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toPublicShowtime(s))
}

func toPublicShowtime(s *model.Showtime) publicShowtime {
	return publicShowtime{
		ID:             s.ID,
		MovieID:        s.MovieID,
		LocationID:     s.LocationID,
		ScreenID:       s.ScreenID,
		StartsAt:       s.StartsAt,
		EndsAt:         s.EndsAt,
		BasePriceCents: s.BasePriceCents,
	}
}
