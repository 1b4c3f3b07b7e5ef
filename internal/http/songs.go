package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/soundlake/playlist-api/internal/domain"
	"github.com/soundlake/playlist-api/internal/repository"
)

const maxRequestBody = 1 << 20 // 1 MiB

const (
	defaultPage    = 1
	defaultPerPage = 10
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type songResponse struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Danceability     *float64 `json:"danceability"`
	Energy           *float64 `json:"energy"`
	Key              *int     `json:"key"`
	Loudness         *float64 `json:"loudness"`
	Mode             *int     `json:"mode"`
	Acousticness     *float64 `json:"acousticness"`
	Instrumentalness *float64 `json:"instrumentalness"`
	Liveness         *float64 `json:"liveness"`
	Valence          *float64 `json:"valence"`
	Tempo            *float64 `json:"tempo"`
	DurationMs       *int64   `json:"duration_ms"`
	TimeSignature    *int     `json:"time_signature"`
	NumBars          *int     `json:"num_bars"`
	NumSections      *int     `json:"num_sections"`
	NumSegments      *int     `json:"num_segments"`
	Class            *int     `json:"class"`
	CurrentRating    *float64 `json:"current_rating"`
}

type songListResponse struct {
	Items      []songResponse `json:"items"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PerPage    int            `json:"per_page"`
	TotalPages int64          `json:"total_pages"`
}

type ratingRequest struct {
	Rating int `json:"rating"`
}

type ratingResponse struct {
	SongID        string  `json:"song_id"`
	AverageRating float64 `json:"average_rating"`
	TotalRatings  int64   `json:"total_ratings"`
}

func (s *Server) handleListSongs(w http.ResponseWriter, r *http.Request) {
	page, perPage, err := parseListQuery(r.URL.Query())
	if err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := s.repo.Songs.List(r.Context(), page, perPage)
	if err != nil {
		s.respondDomainError(w, err, "Failed to list songs")
		return
	}

	items := make([]songResponse, 0, len(result.Items))
	for _, song := range result.Items {
		items = append(items, toSongResponse(song))
	}

	s.respondJSON(w, http.StatusOK, songListResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PerPage:    result.PerPage,
		TotalPages: result.TotalPages,
	})
}

// parseListQuery extracts page/per_page with defaults. Range violations are
// reported here so the repository can assume pre-validated input.
func parseListQuery(query url.Values) (page, perPage int, err error) {
	page = defaultPage
	perPage = defaultPerPage

	if val := strings.TrimSpace(query.Get("page")); val != "" {
		page, err = strconv.Atoi(val)
		if err != nil {
			return 0, 0, fmt.Errorf("page must be an integer")
		}
	}
	if val := strings.TrimSpace(query.Get("per_page")); val != "" {
		perPage, err = strconv.Atoi(val)
		if err != nil {
			return 0, 0, fmt.Errorf("per_page must be an integer")
		}
	}

	if page < 1 {
		return 0, 0, fmt.Errorf("page must be >= 1")
	}
	if perPage < 1 || perPage > repository.MaxPerPage {
		return 0, 0, fmt.Errorf("per_page must be between 1 and %d", repository.MaxPerPage)
	}
	return page, perPage, nil
}

func (s *Server) handleSearchSongs(w http.ResponseWriter, r *http.Request) {
	title := strings.TrimSpace(r.URL.Query().Get("title"))
	if title == "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "title query parameter is required")
		return
	}

	songs, err := s.repo.Songs.SearchByTitle(r.Context(), title)
	if err != nil {
		s.respondDomainError(w, err, "Failed to search songs")
		return
	}

	items := make([]songResponse, 0, len(songs))
	for _, song := range songs {
		items = append(items, toSongResponse(song))
	}
	s.respondJSON(w, http.StatusOK, items)
}

func (s *Server) handleSubmitRating(w http.ResponseWriter, r *http.Request) {
	songID := chi.URLParam(r, "id")
	if songID == "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "missing song id")
		return
	}

	var req ratingRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	summary, err := s.repo.Ratings.Submit(r.Context(), songID, req.Rating)
	if err != nil {
		s.respondDomainError(w, err, "Failed to submit rating")
		return
	}

	s.respondJSON(w, http.StatusOK, ratingResponse{
		SongID:        summary.SongID,
		AverageRating: summary.Average,
		TotalRatings:  summary.Count,
	})
}

func (s *Server) handleGetRating(w http.ResponseWriter, r *http.Request) {
	songID := chi.URLParam(r, "id")
	if songID == "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "missing song id")
		return
	}

	summary, err := s.repo.Ratings.Summary(r.Context(), songID)
	if err != nil {
		s.respondDomainError(w, err, "Failed to fetch rating")
		return
	}

	s.respondJSON(w, http.StatusOK, ratingResponse{
		SongID:        summary.SongID,
		AverageRating: summary.Average,
		TotalRatings:  summary.Count,
	})
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.logger.Error("failed to encode response", zap.Error(err))
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, errorResponse{Code: code, Message: message})
}

// respondDomainError maps the core's error taxonomy onto HTTP statuses.
// Storage failures are logged and surfaced as a generic message.
func (s *Server) respondDomainError(w http.ResponseWriter, err error, fallback string) {
	var dErr *domain.Error
	if errors.As(err, &dErr) {
		switch dErr.Code {
		case domain.ErrCodeValidation:
			s.respondError(w, http.StatusUnprocessableEntity, string(domain.ErrCodeValidation), dErr.Message)
			return
		case domain.ErrCodeNotFound:
			s.respondError(w, http.StatusNotFound, string(domain.ErrCodeNotFound), dErr.Message)
			return
		}
	}
	s.logger.Error(fallback, zap.Error(err))
	s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
}

func (s *Server) respondDecodeError(w http.ResponseWriter, err error) {
	var syntaxError *json.SyntaxError
	var typeError *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxError):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Malformed JSON payload")
	case errors.As(err, &typeError):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", fmt.Sprintf("Invalid value for field %s", typeError.Field))
	case errors.Is(err, io.EOF):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Request body cannot be empty")
	default:
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Unable to parse request body")
	}
}

func toSongResponse(song domain.Song) songResponse {
	return songResponse{
		ID:               song.ID,
		Title:            song.Title,
		Danceability:     song.Danceability,
		Energy:           song.Energy,
		Key:              song.Key,
		Loudness:         song.Loudness,
		Mode:             song.Mode,
		Acousticness:     song.Acousticness,
		Instrumentalness: song.Instrumentalness,
		Liveness:         song.Liveness,
		Valence:          song.Valence,
		Tempo:            song.Tempo,
		DurationMs:       song.DurationMs,
		TimeSignature:    song.TimeSignature,
		NumBars:          song.NumBars,
		NumSections:      song.NumSections,
		NumSegments:      song.NumSegments,
		Class:            song.Class,
		CurrentRating:    song.CurrentRating,
	}
}
