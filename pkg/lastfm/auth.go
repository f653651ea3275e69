package lastfm

import (
	"context"
	"net/url"
)

// AuthService provides authentication operations for the Last.fm API.
type AuthService struct {
	client *Client
}

// tokenResponse is the wire shape of auth.gettoken.
type tokenResponse struct {
	Token *string `json:"token"`
}

// sessionResponse is the wire shape of auth.getSession. Subscriber arrives
// as 0/1.
type sessionResponse struct {
	Session *struct {
		Name       *string `json:"name"`
		Key        *string `json:"key"`
		Subscriber int     `json:"subscriber"`
	} `json:"session"`
}

// GetToken requests an authentication token from Last.fm.
//
// This is the first step in the authentication flow. After obtaining a
// token, the user must approve it by visiting the returned AuthURL. Once
// approved, exchange the token for a session key with GetSession.
func (a *AuthService) GetToken(ctx context.Context) (*Token, error) {
	body, err := a.client.call(ctx, "auth.gettoken", nil)
	if err != nil {
		return nil, err
	}

	var resp tokenResponse
	if err := decodeResponse(body, &resp); err != nil {
		return nil, err
	}
	if resp.Token == nil || *resp.Token == "" {
		return nil, &MissingFieldError{Field: "token"}
	}

	return &Token{
		Token:   *resp.Token,
		AuthURL: a.authURL(*resp.Token),
	}, nil
}

// authURL builds the browser approval URL for a token.
func (a *AuthService) authURL(token string) string {
	q := url.Values{}
	q.Set("api_key", a.client.apiKey)
	q.Set("token", token)
	return a.client.authURL + "?" + q.Encode()
}

// GetSession exchanges an approved token for a session key.
//
// While the user has not yet approved the token in the browser, the service
// responds with API error code 14. That outcome is expected during polling;
// check for it with IsPendingAuthorization and retry. The session key
// returned on success is long-lived and should be persisted by the caller.
func (a *AuthService) GetSession(ctx context.Context, token string) (*Session, error) {
	body, err := a.client.call(ctx, "auth.getSession", map[string]string{
		"token": token,
	})
	if err != nil {
		return nil, err
	}

	var resp sessionResponse
	if err := decodeResponse(body, &resp); err != nil {
		return nil, err
	}
	if resp.Session == nil {
		return nil, &MissingFieldError{Field: "session"}
	}
	if resp.Session.Key == nil || *resp.Session.Key == "" {
		return nil, &MissingFieldError{Field: "session.key"}
	}
	if resp.Session.Name == nil {
		return nil, &MissingFieldError{Field: "session.name"}
	}

	return &Session{
		Key:        *resp.Session.Key,
		Name:       *resp.Session.Name,
		Subscriber: resp.Session.Subscriber == 1,
	}, nil
}
