package xtream

import (
	"encoding/json"
	"strconv"
	"time"
)

// StreamType identifies which catalog domain a category or stream came
// from. The tag is assigned by the endpoint that produced the record, not
// by a field reliably present in the payload.
type StreamType string

// Stream type domains.
const (
	StreamTypeLive   StreamType = "live"
	StreamTypeVOD    StreamType = "vod"
	StreamTypeSeries StreamType = "series"
)

// ParseStreamType converts a string to a StreamType.
func ParseStreamType(s string) (StreamType, bool) {
	switch StreamType(s) {
	case StreamTypeLive, StreamTypeVOD, StreamTypeSeries:
		return StreamType(s), true
	case "movie":
		// get.php and some stream payloads call VOD "movie".
		return StreamTypeVOD, true
	default:
		return "", false
	}
}

// AuthInfo contains the combined server and user information returned by
// the authentication call.
type AuthInfo struct {
	UserInfo   UserInfo   `json:"user_info"`
	ServerInfo ServerInfo `json:"server_info"`
}

// UserInfo contains user account information.
type UserInfo struct {
	Username             string   `json:"username"`
	Password             string   `json:"password" masq:"secret"`
	Message              string   `json:"message"`
	Auth                 FlexInt  `json:"auth"`
	Status               string   `json:"status"`
	ExpDate              FlexInt  `json:"exp_date"`
	IsTrial              FlexInt  `json:"is_trial"`
	ActiveConnections    FlexInt  `json:"active_cons"`
	CreatedAt            FlexInt  `json:"created_at"`
	MaxConnections       FlexInt  `json:"max_connections"`
	AllowedOutputFormats []string `json:"allowed_output_formats"`
}

// IsAuthenticated returns true if the account is valid and active.
func (u *UserInfo) IsAuthenticated() bool {
	return u.Auth.Int() == 1 && u.Status == "Active"
}

// ExpirationTime returns the account expiration time.
func (u *UserInfo) ExpirationTime() time.Time {
	if u.ExpDate.Int() == 0 {
		return time.Time{}
	}
	return time.Unix(u.ExpDate.Int(), 0)
}

// IsExpired returns true if the account has expired.
func (u *UserInfo) IsExpired() bool {
	exp := u.ExpirationTime()
	if exp.IsZero() {
		return false
	}
	return time.Now().After(exp)
}

// ServerInfo contains server configuration information.
type ServerInfo struct {
	URL            string  `json:"url"`
	Port           FlexInt `json:"port"`
	HTTPSPort      FlexInt `json:"https_port"`
	ServerProtocol string  `json:"server_protocol"`
	RTMPPort       FlexInt `json:"rtmp_port"`
	Timezone       string  `json:"timezone"`
	TimestampNow   FlexInt `json:"timestamp_now"`
	TimeNow        string  `json:"time_now"`
	Process        bool    `json:"process"`
}

// Category represents a content category within one stream-type domain.
type Category struct {
	CategoryID   FlexString `json:"category_id"`
	CategoryName string     `json:"category_name"`
	ParentID     FlexInt    `json:"parent_id"`

	// StreamType is the domain the category was listed under. Assigned
	// by the client, not decoded from the payload.
	StreamType StreamType `json:"-"`
}

// Stream represents a single catalog entry from any of the three domains.
// The payload shape varies per domain; fields absent from a domain decode
// to their zero value. Fields the client does not read are not modeled.
type Stream struct {
	Num        FlexInt    `json:"num"`
	Name       string     `json:"name"`
	StreamID   FlexInt    `json:"stream_id"`
	SeriesID   FlexInt    `json:"series_id"`
	StreamIcon string     `json:"stream_icon"`
	Cover      string     `json:"cover"`
	Rating     FlexFloat  `json:"rating"`
	Added      FlexInt    `json:"added"`
	IsAdult    FlexInt    `json:"is_adult"`
	CategoryID FlexString `json:"category_id"`
	CustomSID  string     `json:"custom_sid"`

	// EPGChannelID is the XMLTV channel id, live streams only.
	EPGChannelID string `json:"epg_channel_id"`

	// TVArchive and TVArchiveDays describe catchup availability, live
	// streams only.
	TVArchive     FlexInt `json:"tv_archive"`
	TVArchiveDays FlexInt `json:"tv_archive_duration"`

	// ContainerExtension is the delivery container, VOD and episodes only.
	ContainerExtension string `json:"container_extension"`

	DirectSource string `json:"direct_source"`

	// StreamType is the domain the stream was listed under. Assigned by
	// the client, not decoded from the payload.
	StreamType StreamType `json:"-"`
}

// ID returns the delivery identifier for the stream: series use
// series_id, everything else stream_id.
func (s *Stream) ID() int64 {
	if s.StreamType == StreamTypeSeries && s.SeriesID.Int() != 0 {
		return s.SeriesID.Int()
	}
	return s.StreamID.Int()
}

// Logo returns the artwork URL: stream_icon when present, otherwise the
// series cover.
func (s *Stream) Logo() string {
	if s.StreamIcon != "" {
		return s.StreamIcon
	}
	return s.Cover
}

// AddedTime returns the time the stream was added to the catalog.
func (s *Stream) AddedTime() time.Time {
	if s.Added.Int() == 0 {
		return time.Time{}
	}
	return time.Unix(s.Added.Int(), 0)
}

// VODInfo contains detailed information about a VOD item.
type VODInfo struct {
	Info      VODInfoDetails `json:"info"`
	MovieData Stream         `json:"movie_data"`
}

// VODInfoDetails contains the detailed metadata for a VOD item.
type VODInfoDetails struct {
	MovieImage     string    `json:"movie_image"`
	TMDBId         FlexInt   `json:"tmdb_id"`
	Backdrop       string    `json:"backdrop_path"`
	YoutubeTrailer string    `json:"youtube_trailer"`
	Genre          string    `json:"genre"`
	Plot           string    `json:"plot"`
	Cast           string    `json:"cast"`
	Rating         FlexFloat `json:"rating"`
	Director       string    `json:"director"`
	ReleaseDate    string    `json:"releasedate"`
	Duration       string    `json:"duration"`
	DurationSecs   FlexInt   `json:"duration_secs"`
	Bitrate        FlexInt   `json:"bitrate"`
}

// SeriesInfo contains detailed information about a series including
// its episodes keyed by season number.
type SeriesInfo struct {
	Seasons  []SeasonInfo         `json:"seasons"`
	Info     SeriesInfoDetails    `json:"info"`
	Episodes map[string][]Episode `json:"episodes"`
}

// SeasonInfo contains information about a season.
type SeasonInfo struct {
	AirDate      string `json:"air_date"`
	EpisodeCount int    `json:"episode_count"`
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Overview     string `json:"overview"`
	SeasonNumber int    `json:"season_number"`
	Cover        string `json:"cover"`
	CoverBig     string `json:"cover_big"`
}

// SeriesInfoDetails contains the series metadata.
type SeriesInfoDetails struct {
	Name           string     `json:"name"`
	Cover          string     `json:"cover"`
	Plot           string     `json:"plot"`
	Cast           string     `json:"cast"`
	Director       string     `json:"director"`
	Genre          string     `json:"genre"`
	ReleaseDate    string     `json:"releaseDate"`
	LastModified   FlexInt    `json:"last_modified"`
	Rating         FlexFloat  `json:"rating"`
	EpisodeRunTime string     `json:"episode_run_time"`
	CategoryID     FlexString `json:"category_id"`
}

// Episode represents a single episode in a series.
type Episode struct {
	ID                 FlexInt `json:"id"`
	EpisodeNum         FlexInt `json:"episode_num"`
	Title              string  `json:"title"`
	ContainerExtension string  `json:"container_extension"`
	CustomSID          string  `json:"custom_sid"`
	Added              FlexInt `json:"added"`
	Season             FlexInt `json:"season"`
	DirectSource       string  `json:"direct_source"`
}

// EPGListing represents a single EPG entry.
type EPGListing struct {
	ID             FlexString `json:"id"`
	EPGId          FlexString `json:"epg_id"`
	Title          string     `json:"title"`
	Lang           string     `json:"lang"`
	Start          string     `json:"start"`
	End            string     `json:"end"`
	Description    string     `json:"description"`
	ChannelID      string     `json:"channel_id"`
	StartTimestamp FlexInt    `json:"start_timestamp"`
	StopTimestamp  FlexInt    `json:"stop_timestamp"`
	NowPlaying     FlexInt    `json:"now_playing"`
	HasArchive     FlexInt    `json:"has_archive"`
}

// StartTime returns the program start time.
func (e *EPGListing) StartTime() time.Time {
	if e.StartTimestamp.Int() > 0 {
		return time.Unix(e.StartTimestamp.Int(), 0)
	}
	if t, err := time.Parse("2006-01-02 15:04:05", e.Start); err == nil {
		return t
	}
	return time.Time{}
}

// EndTime returns the program end time.
func (e *EPGListing) EndTime() time.Time {
	if e.StopTimestamp.Int() > 0 {
		return time.Unix(e.StopTimestamp.Int(), 0)
	}
	if t, err := time.Parse("2006-01-02 15:04:05", e.End); err == nil {
		return t
	}
	return time.Time{}
}

// epgResponse wraps the EPG listings response envelope.
type epgResponse struct {
	EPGListings []EPGListing `json:"epg_listings"`
}

// FlexInt handles JSON numbers that may be strings or integers.
type FlexInt int64

// Int returns the integer value.
func (f FlexInt) Int() int64 {
	return int64(f)
}

// UnmarshalJSON handles both string and number JSON values.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexInt(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" {
			*f = 0
			return nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = FlexInt(n)
		return nil
	}

	*f = 0
	return nil
}

// FlexFloat handles JSON numbers that may be strings or floats.
type FlexFloat float64

// Float returns the float value.
func (f FlexFloat) Float() float64 {
	return float64(f)
}

// UnmarshalJSON handles both string and number JSON values.
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexFloat(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" {
			*f = 0
			return nil
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = FlexFloat(n)
		return nil
	}

	*f = 0
	return nil
}

// FlexString handles JSON values that may be strings or numbers.
type FlexString string

// String returns the string value.
func (f FlexString) String() string {
	return string(f)
}

// UnmarshalJSON handles both string and number JSON values.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexString(n.String())
		return nil
	}

	*f = ""
	return nil
}
