package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/antonpav/pad/internal/common"
	"github.com/antonpav/pad/internal/logging"
)

// Client speaks the hosted row service's REST dialect: one path per table,
// filters as query parameters, upsert via POST with a merge preference.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     logging.Logger

	accessToken string
}

// NewClient returns a Client for the service at baseURL. The apiKey is the
// project key sent with every request; the per-user access token is set
// after sign-in.
func NewClient(baseURL, apiKey string, log logging.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{},
		log:     log.With("component", "remote"),
	}
}

// SetAccessToken attaches the signed-in user's token to subsequent calls.
func (c *Client) SetAccessToken(token string) { c.accessToken = token }

// SignIn exchanges credentials for an access token at the identity
// endpoint.
func (c *Client) SignIn(ctx context.Context, email, password string) (string, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/auth/v1/token?grant_type=password", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
		return "", common.ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("sign-in failed: %s", resp.Status)
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode sign-in response: %w", err)
	}
	if out.AccessToken == "" {
		return "", common.ErrUnauthorized
	}
	return out.AccessToken, nil
}

// Health probes the service for reachability. Any HTTP response counts
// as reachable; only transport failures do not.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/health", nil)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrRemoteUnavailable, err)
	}
	resp.Body.Close()
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, table, query string, body []byte) (*http.Request, error) {
	u := c.baseURL + "/rest/v1/" + table
	if query != "" {
		u += "?" + query
	}
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.apiKey)
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// classify maps an error response body/status to our sentinel errors.
func classify(status int, body []byte) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return common.ErrUnauthorized
	case status == http.StatusBadRequest &&
		(bytes.Contains(body, []byte("does not exist")) || bytes.Contains(body, []byte("42703"))):
		return common.ErrMissingColumn
	case status >= 500:
		return fmt.Errorf("%w: status %d", common.ErrRemoteUnavailable, status)
	default:
		return fmt.Errorf("remote error: status %d: %s", status, truncate(body, 200))
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

// selectAll fetches every row of table owned by userID, ordered by
// orderCol descending. A missing-column error is returned as
// common.ErrMissingColumn so the caller can retry with a fallback column.
func (c *Client) selectAll(ctx context.Context, table, userID, orderCol string, out any) error {
	q := url.Values{}
	q.Set("user_id", "eq."+userID)
	q.Set("order", orderCol+".desc")

	req, err := c.newRequest(ctx, http.MethodGet, table, q.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrRemoteUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return classify(resp.StatusCode, body)
	}
	return json.Unmarshal(body, out)
}

// listRows runs selectAll ordered by primaryOrder, falling back to
// created_at when the primary order column is missing on the remote
// schema, and finally degrading to an empty result. Degrading (instead of
// failing) keeps a confusing remote error from ever looking like "remote
// is empty, wipe local".
func listRows[T any](ctx context.Context, c *Client, table, userID, primaryOrder string) ([]T, error) {
	var rows []T
	err := c.selectAll(ctx, table, userID, primaryOrder, &rows)
	if err == nil {
		return rows, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}

	if errors.Is(err, common.ErrMissingColumn) {
		c.log.Warn(ctx, "order column missing, retrying with created_at", "table", table)
		rows = nil
		if err := c.selectAll(ctx, table, userID, "created_at", &rows); err == nil {
			return rows, nil
		}
		c.log.Warn(ctx, "fallback read failed, returning empty collection", "table", table)
		return []T{}, nil
	}
	return nil, err
}

// ListDiaries returns all of the user's diaries from the remote replica.
func (c *Client) ListDiaries(ctx context.Context, userID string) ([]DiaryRow, error) {
	return listRows[DiaryRow](ctx, c, "diaries", userID, "updated_at")
}

// ListFolders returns all of the user's folders.
func (c *Client) ListFolders(ctx context.Context, userID string) ([]FolderRow, error) {
	return listRows[FolderRow](ctx, c, "folders", userID, "created_at")
}

// ListTasks returns all of the user's tasks.
func (c *Client) ListTasks(ctx context.Context, userID string) ([]TaskRow, error) {
	return listRows[TaskRow](ctx, c, "tasks", userID, "sort_order")
}

// upsert writes one row, merging on the primary key so replays are
// idempotent.
func (c *Client) upsert(ctx context.Context, table string, row any) error {
	body, err := json.Marshal([]any{row})
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, http.MethodPost, table, "", body)
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", "resolution=merge-duplicates,return=minimal")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return classify(resp.StatusCode, respBody)
	}
	return nil
}

// del removes one row, scoped by owner so a stale queue entry can never
// delete another account's data.
func (c *Client) del(ctx context.Context, table, userID, id string) error {
	q := url.Values{}
	q.Set("id", "eq."+id)
	q.Set("user_id", "eq."+userID)

	req, err := c.newRequest(ctx, http.MethodDelete, table, q.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return classify(resp.StatusCode, respBody)
	}
	return nil
}

// UpsertDiary writes a diary row; idempotent by id. The owner is stamped
// from userID so a row can never be written under another account.
func (c *Client) UpsertDiary(ctx context.Context, userID string, d DiaryRow) error {
	d.UserID = userID
	return c.upsert(ctx, "diaries", d)
}

// DeleteDiary removes the user's diary row; deleting a missing row is not
// an error.
func (c *Client) DeleteDiary(ctx context.Context, userID, id string) error {
	return c.del(ctx, "diaries", userID, id)
}

// UpsertFolder writes a folder row; idempotent by id. Owner stamped like
// UpsertDiary.
func (c *Client) UpsertFolder(ctx context.Context, userID string, f FolderRow) error {
	f.UserID = userID
	return c.upsert(ctx, "folders", f)
}

// DeleteFolder removes the user's folder row.
func (c *Client) DeleteFolder(ctx context.Context, userID, id string) error {
	return c.del(ctx, "folders", userID, id)
}

// UpsertTask writes a task row; idempotent by id. Owner stamped like
// UpsertDiary.
func (c *Client) UpsertTask(ctx context.Context, userID string, t TaskRow) error {
	t.UserID = userID
	return c.upsert(ctx, "tasks", t)
}

// DeleteTask removes the user's task row.
func (c *Client) DeleteTask(ctx context.Context, userID, id string) error {
	return c.del(ctx, "tasks", userID, id)
}
