package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// Item types used in queries.
const (
	ItemTypeMusicAlbum = "MusicAlbum"
	ItemTypeAudio      = "Audio"
)

// Ping checks that the server answers an authenticated request.
func (c *Client) Ping(ctx context.Context) error {
	return c.Get(ctx, "/System/Info", nil, nil)
}

// SystemInfo returns authenticated server information.
func (c *Client) SystemInfo(ctx context.Context) (*SystemInfo, error) {
	var info SystemInfo
	if err := c.Get(ctx, "/System/Info", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// PublicSystemInfo returns information that needs no authentication.
func (c *Client) PublicSystemInfo(ctx context.Context) (*SystemInfo, error) {
	var info SystemInfo
	if err := c.Get(ctx, "/System/Info/Public", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// AlbumQuery filters an album listing.
type AlbumQuery struct {
	SearchTerm string
	Limit      int
	StartIndex int
}

// ListAlbums returns the user's music albums sorted by name.
func (c *Client) ListAlbums(ctx context.Context, q AlbumQuery) (*ItemsResponse, error) {
	_, userID := c.credentials()
	if userID == "" {
		return nil, fmt.Errorf("list albums: no user id configured")
	}

	params := url.Values{}
	params.Set("IncludeItemTypes", ItemTypeMusicAlbum)
	params.Set("Recursive", "true")
	params.Set("Fields", "PrimaryImageAspectRatio,Overview")
	params.Set("SortBy", "SortName")
	params.Set("SortOrder", "Ascending")
	if q.SearchTerm != "" {
		params.Set("SearchTerm", q.SearchTerm)
	}
	if q.Limit > 0 {
		params.Set("Limit", strconv.Itoa(q.Limit))
	}
	if q.StartIndex > 0 {
		params.Set("StartIndex", strconv.Itoa(q.StartIndex))
	}

	var resp ItemsResponse
	if err := c.Get(ctx, "/Users/"+url.PathEscape(userID)+"/Items", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AlbumTracks returns the audio items of an album ordered by track number.
func (c *Client) AlbumTracks(ctx context.Context, albumID string) (*ItemsResponse, error) {
	if albumID == "" {
		return nil, fmt.Errorf("album id cannot be empty")
	}

	params := url.Values{}
	params.Set("ParentId", albumID)
	params.Set("IncludeItemTypes", ItemTypeAudio)
	params.Set("Recursive", "true")
	params.Set("SortBy", "IndexNumber")
	params.Set("SortOrder", "Ascending")
	params.Set("Fields", "Path,RunTimeTicks")

	var resp ItemsResponse
	if err := c.Get(ctx, "/Items", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AuthenticateByName logs in with a username and password.
func (c *Client) AuthenticateByName(ctx context.Context, username, password string) (*AuthenticationResult, error) {
	body := map[string]string{
		"Username": username,
		"Pw":       password,
	}

	var result AuthenticationResult
	if err := c.Post(ctx, "/Users/AuthenticateByName", body, &result); err != nil {
		return nil, err
	}
	if result.AccessToken == "" {
		return nil, fmt.Errorf("authentication returned no access token")
	}
	return &result, nil
}

// Logout revokes the current access token.
func (c *Client) Logout(ctx context.Context) error {
	return c.Post(ctx, "/Sessions/Logout", nil, nil)
}

// ImageURL returns the primary image URL for an item.
func (c *Client) ImageURL(itemID string) string {
	return c.itemURL(itemID, "/Images/Primary")
}

// StreamURL returns a direct download URL for an audio item.
func (c *Client) StreamURL(itemID string) string {
	return c.itemURL(itemID, "/Download")
}

func (c *Client) itemURL(itemID, suffix string) string {
	apiKey, _ := c.credentials()
	u := c.baseURL + "/Items/" + url.PathEscape(itemID) + suffix
	if apiKey == "" {
		return u
	}
	return u + "?" + url.Values{"api_key": {apiKey}}.Encode()
}
