package validation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// InteractionSchema defines the body of a track-interaction request.
var InteractionSchema = `{
	"type": "object",
	"properties": {
		"movie_title": {"type": "string", "minLength": 1, "maxLength": 300},
		"imdb_id": {"type": ["string", "null"], "maxLength": 20},
		"interaction_type": {"type": "string", "enum": ["viewed", "liked", "watchlist"]},
		"mood_context": {"type": ["string", "null"], "maxLength": 500}
	},
	"required": ["movie_title", "interaction_type"]
}`

// FeedbackSchema defines the JSON body of a feedback submission.
var FeedbackSchema = `{
	"type": "object",
	"properties": {
		"name": {"type": "string", "minLength": 1, "maxLength": 200},
		"email": {"type": "string", "minLength": 3, "maxLength": 320},
		"message": {"type": "string", "minLength": 1, "maxLength": 5000},
		"rating": {"type": ["integer", "string"]}
	},
	"required": ["name", "email", "message"]
}`

var (
	interactionSchema = mustSchema(InteractionSchema)
	feedbackSchema    = mustSchema(FeedbackSchema)
)

func mustSchema(s string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(fmt.Sprintf("invalid JSON schema: %v", err))
	}
	return schema
}

// InteractionRequest is the parsed body of a track-interaction request.
type InteractionRequest struct {
	MovieTitle      string `json:"movie_title"`
	IMDbID          string `json:"imdb_id"`
	InteractionType string `json:"interaction_type"`
	MoodContext     string `json:"mood_context"`
}

// FeedbackRequest is the parsed body of a feedback submission. Rating may
// arrive as a number or as a numeric string.
type FeedbackRequest struct {
	Name    string          `json:"name"`
	Email   string          `json:"email"`
	Message string          `json:"message"`
	Rating  json.RawMessage `json:"rating"`
}

func ParseInteraction(jsonData []byte) (*InteractionRequest, error) {
	var req InteractionRequest
	if err := validateAndParse(interactionSchema, jsonData, &req); err != nil {
		return nil, err
	}
	req.MovieTitle = strings.TrimSpace(req.MovieTitle)
	if req.MovieTitle == "" {
		return nil, fmt.Errorf("%w: movie_title is required", ErrInvalid)
	}
	return &req, nil
}

func ParseFeedback(jsonData []byte) (*FeedbackRequest, error) {
	var req FeedbackRequest
	if err := validateAndParse(feedbackSchema, jsonData, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func validateAndParse(schema *gojsonschema.Schema, jsonData []byte, out any) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(jsonData))
	if err != nil {
		return fmt.Errorf("%w: malformed JSON: %v", ErrInvalid, err)
	}

	if !result.Valid() {
		var errorMessages []string
		for _, desc := range result.Errors() {
			errorMessages = append(errorMessages, desc.String())
		}
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(errorMessages, "; "))
	}

	if err := json.Unmarshal(jsonData, out); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	return nil
}
