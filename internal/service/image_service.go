package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	config "github.com/maheshrc27/ghostwriter/configs"
	"github.com/maheshrc27/ghostwriter/internal/transfer"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

type ImageService interface {
	Generate(ctx context.Context, req transfer.GenerateImageRequest) (*transfer.GenerateImageResponse, error)
}

type imageService struct {
	apiKey  string
	apiURL  string
	client  *http.Client
	storage ObjectStorage
}

// NewImageService wires the nanobanana client. storage may be nil; inline
// image data is then returned as is.
func NewImageService(cfg *config.Config, client *http.Client, storage ObjectStorage) ImageService {
	return &imageService{
		apiKey:  cfg.NanobananaAPIKey,
		apiURL:  cfg.NanobananaAPIURL,
		client:  defaultClient(client),
		storage: storage,
	}
}

func (s *imageService) Generate(ctx context.Context, req transfer.GenerateImageRequest) (*transfer.GenerateImageResponse, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("%w: NANOBANANA_API_KEY not configured in environment variables", ErrNotConfigured)
	}

	prompt := strings.TrimSpace(req.Content)
	if prompt == "" {
		prompt = strings.TrimSpace(req.Prompt)
	}
	if prompt == "" {
		return nil, fmt.Errorf("%w: content or prompt is required", ErrInvalidInput)
	}
	if req.Platform != "" {
		prompt = fmt.Sprintf("%s (for a %s post)", prompt, req.Platform)
	}

	style := req.Style
	if style == "" {
		style = "default"
	}

	payload, err := json.Marshal(map[string]string{"prompt": prompt, "style": style})
	if err != nil {
		return nil, err
	}

	resp, err := send(ctx, s.client, longTimeout, func(ctx context.Context) (*http.Request, error) {
		r, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		r.Header.Set("Authorization", "Bearer "+s.apiKey)
		r.Header.Set("Content-Type", "application/json")
		return r, nil
	})
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("%w: Request failed: %v", ErrUpstream, err)
	}
	if resp.status != http.StatusOK {
		return nil, fmt.Errorf("%w: API returned status %d: %s", ErrUpstream, resp.status, string(resp.body))
	}

	var data transfer.NanobananaResponse
	if err := json.Unmarshal(resp.body, &data); err != nil {
		return nil, fmt.Errorf("%w: unexpected image response: %v", ErrUpstream, err)
	}

	out := &transfer.GenerateImageResponse{
		Success:   true,
		ImageURL:  data.ImageURL,
		ImageData: data.ImageData,
		Metadata:  data.Metadata,
	}
	if out.ImageURL == "" {
		out.ImageURL = data.URL
	}
	if out.Metadata == nil {
		out.Metadata = map[string]any{}
	}

	if out.ImageData != "" {
		s.describeInline(ctx, out)
	}
	return out, nil
}

// describeInline records the sniffed format of base64 image data and, when
// object storage is available and no URL was given, hosts the bytes there.
func (s *imageService) describeInline(ctx context.Context, out *transfer.GenerateImageResponse) {
	raw, err := decodeImageData(out.ImageData)
	if err != nil {
		slog.Info("image_data is not base64", "error", err.Error())
		return
	}

	kind, err := filetype.Match(raw)
	if err != nil || kind == types.Unknown || !filetype.IsImage(raw) {
		return
	}
	out.Metadata["format"] = kind.Extension
	out.Metadata["mime_type"] = kind.MIME.Value

	if s.storage == nil || out.ImageURL != "" {
		return
	}

	id, err := gonanoid.New()
	if err != nil {
		return
	}
	url, err := s.storage.Upload(ctx, id+"."+kind.Extension, raw, kind.MIME.Value)
	if err != nil {
		slog.Info("generated image upload failed", "error", err.Error())
		return
	}
	out.ImageURL = url
}

func decodeImageData(data string) ([]byte, error) {
	if i := strings.Index(data, ";base64,"); i >= 0 && strings.HasPrefix(data, "data:") {
		data = data[i+len(";base64,"):]
	}
	return base64.StdEncoding.DecodeString(strings.TrimSpace(data))
}
