package models

// Voice is a text-to-speech voice
type Voice struct {
	ID        string   `json:"voice_id"`
	Label     string   `json:"label"`
	Languages []string `json:"languages"`
	EngineID  string   `json:"engine_id"`
}

// SynthesizeRequest asks the gateway to synthesise a text
type SynthesizeRequest struct {
	Text    string `json:"text"`
	VoiceID string `json:"voice_id"`
}

// Validate checks the request before it is sent
func (r SynthesizeRequest) Validate() error {
	if r.Text == "" {
		return invalid("text", "text is required")
	}
	if r.VoiceID == "" {
		return invalid("voice_id", "voice is required")
	}
	return nil
}

// SynthesizeResult points to the synthesised audio
type SynthesizeResult struct {
	AudioPath string `json:"audio_path"`
	AudioURL  string `json:"audio_url"`
}
