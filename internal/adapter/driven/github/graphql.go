package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ericfisherdev/mydashboard/internal/domain/model"
	"github.com/ericfisherdev/mydashboard/internal/domain/port/driven"
)

// graphqlHTTPClient is the HTTP client used for GraphQL requests.
// It enforces a 30-second timeout as a safety net alongside context cancellation.
var graphqlHTTPClient = &http.Client{Timeout: 30 * time.Second}

const contributionCalendarQuery = `query($login: String!) {
	user(login: $login) {
		contributionsCollection {
			contributionCalendar {
				totalContributions
				weeks {
					contributionDays {
						contributionCount
						date
						contributionLevel
					}
				}
			}
		}
	}
}`

// graphqlRequest is the JSON body sent to the GitHub GraphQL API.
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// calendarResponse represents the expected shape of a GitHub GraphQL response
// for the contribution calendar. User is null for unknown logins.
type calendarResponse struct {
	Data struct {
		User *struct {
			ContributionsCollection struct {
				ContributionCalendar struct {
					TotalContributions int `json:"totalContributions"`
					Weeks              []struct {
						ContributionDays []struct {
							ContributionCount int    `json:"contributionCount"`
							Date              string `json:"date"`
							ContributionLevel string `json:"contributionLevel"`
						} `json:"contributionDays"`
					} `json:"weeks"`
				} `json:"contributionCalendar"`
			} `json:"contributionsCollection"`
		} `json:"user"`
	} `json:"data"`
	Errors []struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"errors"`
}

// FetchContributionCalendar queries the GitHub GraphQL API for the user's
// contribution calendar and flattens its weeks into one entry per day.
// The GraphQL API rejects anonymous requests, so a token is required.
func (c *Client) FetchContributionCalendar(ctx context.Context, username string) (model.ContributionCalendar, error) {
	if c.token == "" {
		return model.ContributionCalendar{}, driven.ErrTokenRequired
	}

	reqBody := graphqlRequest{
		Query:     contributionCalendarQuery,
		Variables: map[string]any{"login": username},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return model.ContributionCalendar{}, fmt.Errorf("graphql: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphqlURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return model.ContributionCalendar{}, fmt.Errorf("graphql: create request: %w", err)
	}
	httpReq.Header.Set("Authorization", fmt.Sprintf("bearer %s", c.token))
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := graphqlHTTPClient.Do(httpReq)
	if err != nil {
		return model.ContributionCalendar{}, fmt.Errorf("graphql: request for %s: %w", username, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return model.ContributionCalendar{}, fmt.Errorf("graphql: unexpected status %d for %s", resp.StatusCode, username)
	}

	var gqlResp calendarResponse
	if err := json.NewDecoder(resp.Body).Decode(&gqlResp); err != nil {
		return model.ContributionCalendar{}, fmt.Errorf("graphql: decode response: %w", err)
	}

	if len(gqlResp.Errors) > 0 {
		if gqlResp.Errors[0].Type == "NOT_FOUND" {
			return model.ContributionCalendar{}, fmt.Errorf("%w: %s", driven.ErrUserNotFound, username)
		}
		return model.ContributionCalendar{}, fmt.Errorf("graphql: %s", gqlResp.Errors[0].Message)
	}

	if gqlResp.Data.User == nil {
		return model.ContributionCalendar{}, fmt.Errorf("%w: %s", driven.ErrUserNotFound, username)
	}

	cal := gqlResp.Data.User.ContributionsCollection.ContributionCalendar
	result := model.ContributionCalendar{
		Total: cal.TotalContributions,
		Days:  make([]model.ContributionDay, 0, len(cal.Weeks)*7),
	}
	for _, week := range cal.Weeks {
		for _, day := range week.ContributionDays {
			result.Days = append(result.Days, model.ContributionDay{
				Date:  day.Date,
				Count: day.ContributionCount,
				Level: model.ContributionLevelFromGitHub(day.ContributionLevel),
			})
		}
	}

	return result, nil
}
