package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"route-engine-client/internal/domain"
	"strings"
)

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

func (r *RemoteEngine) newRequest(ctx context.Context, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", r.userAgent)

	return req, nil
}

func (r *RemoteEngine) do(req *http.Request) (*http.Response, error) {
	resp, err := r.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

// get issues one GET and returns the body of a 2xx response.
func (r *RemoteEngine) get(ctx context.Context, url string) ([]byte, error) {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	req, err := r.newRequest(ctx, url)
	if err != nil {
		return nil, err
	}

	resp, err := r.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return body, nil
}

// fetch runs one remote call and decodes its payload into T.
func fetch[T any](ctx context.Context, r *RemoteEngine, url string) (*T, error) {
	body, err := r.get(ctx, url)
	if err != nil {
		return nil, r.transportError(err)
	}
	return decodeResponse[T](domain.BackendRemote, body, domain.ErrEndpoint)
}

// transportError maps transport failures onto the shared error shape. An
// error status whose body carries a no-result code is an empty response,
// not an endpoint failure.
func (r *RemoteEngine) transportError(err error) error {
	var he *httpStatusError
	if !errors.As(err, &he) {
		return &domain.EngineError{Backend: domain.BackendRemote, Kind: domain.ErrEndpoint, Err: err}
	}

	var st domain.Status
	if decodeStatus([]byte(he.Body), &st) == nil && st.Code != "" {
		if mapped := statusError(domain.BackendRemote, st, he.Code, domain.ErrEndpoint); mapped != nil {
			return mapped
		}
	}

	return &domain.EngineError{
		Backend: domain.BackendRemote,
		Kind:    domain.ErrEndpoint,
		Status:  he.Code,
		Message: he.Body,
	}
}
