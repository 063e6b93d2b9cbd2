package transfer

// FailureKind classifies an unsuccessful PlatformResult.
type FailureKind int

const (
	_ FailureKind = iota // success
	// FailureConfig means a credential or token was missing before any call was made.
	FailureConfig
	// FailureUpstream covers non-2xx answers and network errors.
	FailureUpstream
)

// PlatformResult is the uniform answer of every platform client call.
type PlatformResult struct {
	Success    bool           `json:"success"`
	Message    string         `json:"message"`
	RemoteID   string         `json:"remote_id,omitempty"`
	URL        string         `json:"url,omitempty"`
	StatusCode int            `json:"status_code,omitempty"`
	UserID     string         `json:"user_id,omitempty"`
	Name       string         `json:"name,omitempty"`
	Username   string         `json:"username,omitempty"`
	Pages      []FacebookPage `json:"pages,omitempty"`
	ErrorCode  int            `json:"error_code,omitempty"`
	ErrorType  string         `json:"error_type,omitempty"`
	Failure    FailureKind    `json:"-"`
}

type WordPressCredentials struct {
	SiteURL  string `json:"site_url"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type WordPressPost struct {
	Title   string
	Content string
	Status  string
}

type WordPressPostResponse struct {
	ID   int64  `json:"id"`
	Link string `json:"link"`
}

type WordPressUser struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type FacebookPost struct {
	Message         string
	AccessToken     string
	PageID          string
	PageAccessToken string
	Link            string
	ImageURL        string
}

type FacebookPage struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AccessToken string `json:"access_token,omitempty"`
}

type FacebookPagesResponse struct {
	Data []FacebookPage `json:"data"`
}

// GraphUser is the /me answer of the Facebook and Threads graph APIs.
type GraphUser struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

type GraphIDResponse struct {
	ID string `json:"id"`
}

type GraphErrorResponse struct {
	Error struct {
		Message   string `json:"message"`
		Type      string `json:"type"`
		Code      int    `json:"code"`
		FbtraceID string `json:"fbtrace_id"`
	} `json:"error"`
}

type VerifyTokenRequest struct {
	AccessToken string `json:"access_token"`
}
