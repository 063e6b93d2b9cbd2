package transfer

type GenerateImageRequest struct {
	Content  string `json:"content"`
	Prompt   string `json:"prompt"`
	Platform string `json:"platform"`
	Style    string `json:"style"`
}

type GenerateImageResponse struct {
	Success   bool           `json:"success"`
	ImageURL  string         `json:"image_url,omitempty"`
	ImageData string         `json:"image_data,omitempty"`
	Metadata  map[string]any `json:"metadata"`
}

// NanobananaResponse accepts both url spellings the provider has used.
type NanobananaResponse struct {
	ImageURL  string         `json:"image_url"`
	URL       string         `json:"url"`
	ImageData string         `json:"image_data"`
	Metadata  map[string]any `json:"metadata"`
}

type CheckWordPressRequest struct {
	URL string `json:"url"`
}

type WordPressSignals struct {
	WPJSON         bool `json:"wp_json"`
	WPContent      bool `json:"wp_content"`
	WPLogin        bool `json:"wp_login"`
	MetaGenerator  bool `json:"meta_generator"`
	HeadersPowered bool `json:"headers_powered"`
}

func (s WordPressSignals) Score() int {
	n := 0
	for _, v := range []bool{s.WPJSON, s.WPContent, s.WPLogin, s.MetaGenerator, s.HeadersPowered} {
		if v {
			n++
		}
	}
	return n
}

type CheckWordPressResponse struct {
	IsWordPress bool             `json:"is_wordpress"`
	Score       int              `json:"score"`
	Signals     WordPressSignals `json:"signals"`
}
