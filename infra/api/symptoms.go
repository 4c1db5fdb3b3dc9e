package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/CrestNiraj12/medplus/domain"
)

// symptomService implements app.SymptomService against a recommendation
// endpoint that may live outside the main API origin.
type symptomService struct {
	client   *Client
	endpoint string
}

// NewSymptomService creates a SymptomService querying endpoint.
func NewSymptomService(client *Client, endpoint string) *symptomService {
	return &symptomService{client: client, endpoint: endpoint}
}

type recommendationResponse struct {
	Recommendation string `json:"recommendation"`
}

// Recommend asks for a doctor recommendation for a comma-separated symptom list.
func (s *symptomService) Recommend(ctx context.Context, symptoms string) (string, error) {
	symptoms = strings.TrimSpace(symptoms)
	if symptoms == "" {
		return "", domain.ErrEmptySymptoms
	}

	u, err := url.Parse(s.endpoint)
	if err != nil {
		return "", transportFailure("invalid symptoms endpoint", err)
	}
	q := u.Query()
	q.Set("symptoms", symptoms)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", transportFailure("creating request", err)
	}
	req.Header.Set("Accept", "application/json")

	var res recommendationResponse
	if err := s.client.send(req, &res); err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Recommendation), nil
}
