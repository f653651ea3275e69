package lastfm

import (
	"context"
	"io"
	"net/http"
)

// UserService provides user profile operations for the Last.fm API.
type UserService struct {
	client *Client
}

// userInfoResponse is the wire shape of user.getInfo.
type userInfoResponse struct {
	User *struct {
		URL    *string     `json:"url"`
		Images []UserImage `json:"image"`
	} `json:"user"`
}

// GetInfo fetches the authenticated user's profile.
func (u *UserService) GetInfo(ctx context.Context, sessionKey string) (*UserInfo, error) {
	body, err := u.client.call(ctx, "user.getInfo", map[string]string{
		"sk": sessionKey,
	})
	if err != nil {
		return nil, err
	}

	var resp userInfoResponse
	if err := decodeResponse(body, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, &MissingFieldError{Field: "user"}
	}
	if resp.User.URL == nil {
		return nil, &MissingFieldError{Field: "user.url"}
	}

	return &UserInfo{
		URL:    *resp.User.URL,
		Images: resp.User.Images,
	}, nil
}

// GetImage fetches an avatar image by URL with a plain GET.
//
// Avatar fetching is best-effort: any failure, including a non-200 status,
// returns (nil, nil) so a missing image never blocks login.
func (u *UserService) GetImage(ctx context.Context, imageURL string) ([]byte, error) {
	if imageURL == "" {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, "GET", imageURL, nil)
	if err != nil {
		return nil, nil
	}
	req.Header.Set("User-Agent", u.client.userAgent)

	resp, err := u.client.httpClient.Do(req)
	if err != nil {
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil
	}
	return data, nil
}
