package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/kittipat/movietix/internal/dto"
	"github.com/kittipat/movietix/internal/service"
	"github.com/kittipat/movietix/pkg/response"
)

// MovieHandler handles movie catalog endpoints
type MovieHandler struct {
	movieService service.MovieService
}

// NewMovieHandler creates a new MovieHandler
func NewMovieHandler(movieService service.MovieService) *MovieHandler {
	return &MovieHandler{movieService: movieService}
}

// List handles GET /movies
func (h *MovieHandler) List(c *gin.Context) {
	var query dto.MovieListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	movies, total, err := h.movieService.List(c.Request.Context(), &query)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, dto.NewPaginated(movies, total, query.Pagination))
}

// Get handles GET /movies/:movieId
func (h *MovieHandler) Get(c *gin.Context) {
	movie, err := h.movieService.Get(c.Request.Context(), c.Param("movieId"))
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, movie)
}

// Create handles POST /movies
func (h *MovieHandler) Create(c *gin.Context) {
	var req dto.CreateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	movie, err := h.movieService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Created(c, movie)
}

// Update handles PATCH /movies/:movieId
func (h *MovieHandler) Update(c *gin.Context) {
	var req dto.UpdateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	movie, err := h.movieService.Update(c.Request.Context(), c.Param("movieId"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, movie)
}

// Delete handles DELETE /movies/:movieId
func (h *MovieHandler) Delete(c *gin.Context) {
	if err := h.movieService.Delete(c.Request.Context(), c.Param("movieId")); err != nil {
		respondError(c, err)
		return
	}

	response.NoContent(c)
}
