package dispatchy

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// Deepgram API constants
const (
	deepgramBaseURL        = "https://api.deepgram.com"
	deepgramListenPath     = "/v1/listen"
	deepgramSpeakPath      = "/v1/speak"
	deepgramListenModel    = "nova-2"
	deepgramSpeakModel     = "aura-asteria-en"
	deepgramAuthScheme     = "Token "
	deepgramAudioMimeType  = "audio/wav"
	deepgramRequestTimeout = 30 * time.Second
)

// DeepgramClient transcribes recorded audio and synthesizes speech through
// the Deepgram REST API. It implements Transcriber and Synthesizer.
type DeepgramClient struct {
	http *resty.Client
}

// NewDeepgramClient creates a client authenticated with the given API key.
func NewDeepgramClient(apiKey string) *DeepgramClient {
	client := resty.New().
		SetBaseURL(deepgramBaseURL).
		SetTimeout(deepgramRequestTimeout).
		SetHeader("Authorization", deepgramAuthScheme+apiKey)

	return &DeepgramClient{http: client}
}

// deepgramListenResponse is the subset of the transcription response the
// client reads.
type deepgramListenResponse struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string `json:"transcript"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

// Transcribe sends recorded audio to the prerecorded-transcription endpoint
// and returns the transcript of the first alternative.
func (c *DeepgramClient) Transcribe(ctx context.Context, audio []byte) (string, error) {
	var result deepgramListenResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("model", deepgramListenModel).
		SetQueryParam("smart_format", "true").
		SetHeader("Content-Type", deepgramAudioMimeType).
		SetBody(audio).
		SetResult(&result).
		Post(deepgramListenPath)
	if err != nil {
		return "", NewCapabilityError(ErrMsgTranscribeFailed, err)
	}
	if resp.IsError() {
		return "", NewCapabilityStatusError(ErrMsgTranscribeFailed, resp.StatusCode())
	}

	channels := result.Results.Channels
	if len(channels) == 0 || len(channels[0].Alternatives) == 0 {
		return "", NewCapabilityError(ErrMsgEmptyTranscript, nil)
	}
	return channels[0].Alternatives[0].Transcript, nil
}

// deepgramSpeakRequest is the synthesis request body.
type deepgramSpeakRequest struct {
	Text string `json:"text"`
}

// Synthesize converts text to spoken audio and returns the audio bytes.
func (c *DeepgramClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("model", deepgramSpeakModel).
		SetHeader("Content-Type", "application/json").
		SetBody(deepgramSpeakRequest{Text: text}).
		Post(deepgramSpeakPath)
	if err != nil {
		return nil, NewCapabilityError(ErrMsgSynthesizeFailed, err)
	}
	if resp.IsError() {
		return nil, NewCapabilityStatusError(ErrMsgSynthesizeFailed, resp.StatusCode())
	}
	return resp.Body(), nil
}
