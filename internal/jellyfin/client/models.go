package client

// BaseItem is the subset of Jellyfin's BaseItemDto jamp reads.
type BaseItem struct {
	ID              string            `json:"Id"`
	Name            string            `json:"Name"`
	Type            string            `json:"Type"`
	Album           string            `json:"Album,omitempty"`
	AlbumID         string            `json:"AlbumId,omitempty"`
	AlbumArtist     string            `json:"AlbumArtist,omitempty"`
	Artists         []string          `json:"Artists,omitempty"`
	ProductionYear  int               `json:"ProductionYear,omitempty"`
	IndexNumber     int               `json:"IndexNumber,omitempty"`
	RunTimeTicks    int64             `json:"RunTimeTicks,omitempty"`
	HasPrimaryImage bool              `json:"HasPrimaryImage,omitempty"`
	ImageTags       map[string]string `json:"ImageTags,omitempty"`
	Path            string            `json:"Path,omitempty"`
	Overview        string            `json:"Overview,omitempty"`
}

// HasImage reports whether the item has a primary image.
func (i BaseItem) HasImage() bool {
	if i.HasPrimaryImage {
		return true
	}
	_, ok := i.ImageTags["Primary"]
	return ok
}

// ItemsResponse is a page of items.
type ItemsResponse struct {
	Items            []BaseItem `json:"Items"`
	TotalRecordCount int        `json:"TotalRecordCount"`
	StartIndex       int        `json:"StartIndex"`
}

// SystemInfo describes the server.
type SystemInfo struct {
	ID              string `json:"Id"`
	ServerName      string `json:"ServerName"`
	Version         string `json:"Version"`
	OperatingSystem string `json:"OperatingSystem,omitempty"`
}

// User is a Jellyfin user.
type User struct {
	ID   string `json:"Id"`
	Name string `json:"Name"`
}

// AuthenticationResult is returned by AuthenticateByName.
type AuthenticationResult struct {
	User        User   `json:"User"`
	AccessToken string `json:"AccessToken"`
	ServerID    string `json:"ServerId"`
}
