// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// ErrorResponse is the JSON error body used by the diary API.
type ErrorResponse struct {
	Error string `json:"error"`
}

type AnalysisRequest struct {
	Text string `json:"text"`
}

type AnalysisResponse struct {
	Keywords []string `json:"keywords"`
}

type RecommendationRequest struct {
	Text string `json:"text"`
}

type RecommendationResponse struct {
	Keywords []string                      `json:"keywords"`
	Songs    []SongRecommendationResponse  `json:"songs"`
	Movies   []MovieRecommendationResponse `json:"movies"`
}

type SongRecommendationResponse struct {
	ReleaseYear     string `json:"releaseYear"`
	ImageURL        string `json:"imageUrl"`
	SongName        string `json:"songName"`
	ArtistName      string `json:"artistName"`
	PopularityScore string `json:"popularityScore"`
	ExternalURL     string `json:"externalUrl"`
}

type MovieRecommendationResponse struct {
	ReleaseYear string `json:"releaseYear"`
	ImageURL    string `json:"imageUrl"`
	MovieTitle  string `json:"movieTitle"`
	MovieRating string `json:"movieRating"`
	Overview    string `json:"overview"`
}
