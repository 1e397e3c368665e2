package api

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/Davidlouiz/passerelle-vhf/pkg/models"
)

// GetVoices lists the available text-to-speech voices
func (c *Client) GetVoices(ctx context.Context) ([]models.Voice, error) {
	var voices []models.Voice
	if err := c.call(ctx, request{method: http.MethodGet, path: "/tts/voices"}, &voices); err != nil {
		return nil, err
	}
	return voices, nil
}

// Synthesize renders a text with the given voice
func (c *Client) Synthesize(ctx context.Context, req models.SynthesizeRequest) (*models.SynthesizeResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var result models.SynthesizeResult
	if err := c.call(ctx, request{method: http.MethodPost, path: "/tts/synthesize", body: req}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AudioFile returns the file name of a gateway audio URL
func AudioFile(audioURL string) string {
	return path.Base(audioURL)
}

// OpenAudio streams a synthesised audio file. The caller must close the
// response body.
func (c *Client) OpenAudio(ctx context.Context, filename string) (*http.Response, error) {
	if filename == "" || strings.ContainsAny(filename, "/\\") || strings.Contains(filename, "..") {
		return nil, fmt.Errorf("invalid audio file name %q", filename)
	}
	resp, err := c.doRequest(ctx, request{method: http.MethodGet, path: "/tts/audio/" + filename})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
